package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"schoolhub_backend/internal/logger"
	"schoolhub_backend/pkg/apperrors"
)

// RateLimiter throttles per-user request rates through a redis counter with a
// sliding one-window expiry.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Middleware rejects callers above the limit with 429. When redis is down
// the limiter fails open: throttling is protection, not a correctness gate.
func (rl *RateLimiter) Middleware(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Unauthenticated endpoints are limited per IP.
		caller := GetUserID(c)
		if caller == "" {
			caller = c.ClientIP()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", action, caller)
		ctx := c.Request.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			logger.WithError(err).Warn("rate limiter unavailable", "action", action)
			c.Next()
			return
		}
		if count == 1 {
			rl.client.Expire(ctx, key, rl.window)
		}

		if count > int64(rl.limit) {
			appErr := apperrors.ErrRateLimited
			c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{"error": appErr})
			return
		}

		c.Next()
	}
}
