package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the columns every document-processing table shares. The
// tables are owned by the external pipeline, so there is no updated_at or
// soft-delete column.
type Base struct {
	ID        string    `json:"id"         gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
