package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/intentified/web/internal/pkg/redis"
	"gorm.io/gorm"
)

// RegisterRoutes mounts GET /healthz. It answers 503 when the database
// cannot be pinged; redis is reported but optional.
func RegisterRoutes(r gin.IRoutes, db *gorm.DB, rc *pkgredis.Client, started time.Time) {
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbOK := false
		if sqlDB, err := db.DB(); err == nil {
			dbOK = sqlDB.PingContext(ctx) == nil
		}

		redisState := "disabled"
		if raw := rc.Raw(); raw != nil {
			redisState = "ok"
			if err := raw.Ping(ctx).Err(); err != nil {
				redisState = "down"
			}
		}

		status, code := "ok", http.StatusOK
		if !dbOK {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
			"redis":    redisState,
			"uptime":   humanizeDuration(time.Since(started)),
		})
	})
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return d.Truncate(time.Second).String()
	case d < time.Hour:
		return d.Truncate(time.Minute).String()
	case d < 24*time.Hour:
		return d.Truncate(time.Hour).String()
	}
	return d.Truncate(24 * time.Hour).String()
}
