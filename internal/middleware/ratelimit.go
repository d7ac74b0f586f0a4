package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/intentified/web/internal/pkg/response"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	rateLimitMax    = 20
	rateLimitWindow = time.Second
	rateLimitPrefix = "intentified:rate_limit"
)

// RateLimit enforces a fixed one-second window per caller. Callers are keyed
// by user ID when the gate admitted them, by client IP otherwise. A nil
// client or a redis failure lets the request through.
func RateLimit(rdb *redis.Client, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		subject := CurrentUserID(c)
		if subject == "" {
			subject = c.ClientIP()
		}
		if subject == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s:%d", rateLimitPrefix, subject, time.Now().Unix())

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > rateLimitMax {
			log.Info("throttled", zap.String("subject", subject), zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", "1")
			response.Abort(c, http.StatusTooManyRequests, "Too many requests, slow down")
			return
		}

		c.Next()
	}
}
