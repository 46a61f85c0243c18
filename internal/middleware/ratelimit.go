package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trackline/trackline-backend/internal/logger"
)

// RateLimitMiddleware is a fixed-window counter per client IP backed by
// Redis. It guards the credential endpoints; when Redis is not configured
// the limiter is a no-op rather than an outage.
type RateLimitMiddleware struct {
	log    *logger.Logger
	rdb    *goredis.Client
	limit  int
	window time.Duration
}

func NewRateLimitMiddleware(log *logger.Logger, rdb *goredis.Client, limit int, window time.Duration) *RateLimitMiddleware {
	middlewareLog := log.With("middleware", "RateLimitMiddleware")
	return &RateLimitMiddleware{log: middlewareLog, rdb: rdb, limit: limit, window: window}
}

func (rl *RateLimitMiddleware) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rdb == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should not take auth down with it.
			rl.log.Warn("Rate limit counter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if eErr := rl.rdb.Expire(ctx, key, rl.window).Err(); eErr != nil {
				rl.log.Warn("Failed to set rate limit window", "error", eErr)
			}
		}
		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
