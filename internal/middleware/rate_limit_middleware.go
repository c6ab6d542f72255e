package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
)

// RateLimitConfig configures a fixed-window limiter.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	KeyPrefix   string
}

// AnswerRateLimitConfig limits answer submissions per user.
func AnswerRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: perMinute,
		Window:      time.Minute,
		KeyPrefix:   "rl:answers",
	}
}

// RateLimiter is a Redis-backed fixed-window limiter.
type RateLimiter struct {
	cache  repository.CacheRepository
	logger *zap.Logger
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(cache repository.CacheRepository, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{cache: cache, logger: logger.Named("rate_limit")}
}

// Limit counts requests per authenticated user, or per client IP when the
// request is anonymous, and route. Redis errors let the request through.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := "ip:" + c.ClientIP()
		if userID, ok := c.Get(ContextUserID); ok {
			subject = fmt.Sprintf("user:%v", userID)
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, subject, path)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rl.cache.Increment(ctx, key)
		if err != nil {
			rl.logger.Warn("rate limit counter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.cache.Expire(ctx, key, cfg.Window); err != nil {
				rl.logger.Warn("failed to set rate limit window", zap.String("key", key), zap.Error(err))
			}
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		retryAfter := int(cfg.Window.Seconds())

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if int(count) > cfg.MaxRequests {
			rl.ensureWindow(ctx, key, cfg.Window)
			rl.logger.Info("rate limit exceeded",
				zap.String("subject", subject),
				zap.String("path", path),
				zap.Int64("count", count),
				zap.Int("limit", cfg.MaxRequests),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// ensureWindow re-sets the TTL of a counter that has none.
func (rl *RateLimiter) ensureWindow(ctx context.Context, key string, window time.Duration) {
	ttl, err := rl.cache.TTL(ctx, key)
	if err != nil {
		rl.logger.Warn("failed to read rate limit window", zap.String("key", key), zap.Error(err))
		return
	}
	if ttl >= 0 {
		return
	}
	if err := rl.cache.Expire(ctx, key, window); err != nil {
		rl.logger.Warn("failed to restore rate limit window", zap.String("key", key), zap.Error(err))
	}
}
