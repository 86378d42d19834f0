package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"blog-backend/internal/shared/apperr"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Limiter admits at most limit hits per key in each window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// CacheLimiter is a fixed-window counter on the shared cache (INCR + EXPIRE).
type CacheLimiter struct {
	cache cache.Cache
}

func NewCacheLimiter(c cache.Cache) *CacheLimiter {
	return &CacheLimiter{cache: c}
}

func (l *CacheLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	count, err := l.cache.Increment(ctx, key)
	if err != nil {
		return false, 0, fmt.Errorf("increment %s: %w", key, err)
	}
	if count == 1 {
		if err := l.cache.Expire(ctx, key, window); err != nil {
			return false, 0, fmt.Errorf("expire %s: %w", key, err)
		}
	}

	ttl, err := l.cache.TTL(ctx, key)
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count <= int64(limit), ttl, nil
}

// RateLimit throttles a route per client IP. Limiter failures let the
// request through.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetString(ClientIPKey)
		if ip == "" {
			ip = c.ClientIP()
		}
		key := fmt.Sprintf("ratelimit:%s:%s", scope, ip)
		logger := zerolog.Ctx(c.Request.Context())

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Error().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if !allowed {
			logger.Warn().
				Str("ip", ip).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("scope", scope).
				Msg("Rate limit exceeded")

			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			response.AbortWithError(c, apperr.RateLimited())
			return
		}

		c.Next()
	}
}
