package documents

import (
	"context"

	"github.com/intentified/web/internal/models"
	"github.com/intentified/web/internal/pkg/pagination"
	"github.com/intentified/web/internal/pkg/response"
	"gorm.io/gorm"
)

// Repository reads the processing tables. It never writes them.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListDocuments returns every document, newest first.
func (r *Repository) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// PageDocuments returns one page of documents, newest first.
func (r *Repository) PageDocuments(ctx context.Context, q pagination.Query) ([]models.Document, response.Pagination, error) {
	var docs []models.Document
	tx := r.db.WithContext(ctx).Model(&models.Document{}).Order("created_at DESC")
	pag, err := pagination.Paginate(tx, q, &docs)
	return docs, pag, err
}

// GetDocument returns gorm.ErrRecordNotFound for an unknown id.
func (r *Repository) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListTasksFor returns the tasks of the given documents, oldest first.
func (r *Repository) ListTasksFor(ctx context.Context, ids []string) ([]models.ProcessingTask, error) {
	var tasks []models.ProcessingTask
	err := r.forDocuments(ctx, ids).Find(&tasks).Error
	return tasks, err
}

// ListChunksFor returns the chunks of the given documents, oldest first.
func (r *Repository) ListChunksFor(ctx context.Context, ids []string) ([]models.DocumentChunk, error) {
	var chunks []models.DocumentChunk
	err := r.forDocuments(ctx, ids).Find(&chunks).Error
	return chunks, err
}

// ListEntitiesFor returns the entities of the given documents, oldest first.
func (r *Repository) ListEntitiesFor(ctx context.Context, ids []string) ([]models.DocumentEntity, error) {
	var entities []models.DocumentEntity
	err := r.forDocuments(ctx, ids).Find(&entities).Error
	return entities, err
}

func (r *Repository) forDocuments(ctx context.Context, ids []string) *gorm.DB {
	tx := r.db.WithContext(ctx).Order("created_at ASC")
	if len(ids) == 0 {
		// An empty IN list matches nothing.
		return tx.Where("1 = 0")
	}
	return tx.Where("document_id IN ?", ids)
}
