package jwt

import (
	"context"
	"time"

	"blog-backend/pkg/cache"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// CacheBlacklist stores revoked jti values in the shared cache.
type CacheBlacklist struct {
	cache cache.Cache
}

func NewCacheBlacklist(c cache.Cache) *CacheBlacklist {
	return &CacheBlacklist{cache: c}
}

func (b *CacheBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return b.cache.Set(ctx, blacklistKeyPrefix+jti, true, ttl)
}

func (b *CacheBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return b.cache.Exists(ctx, blacklistKeyPrefix+jti)
}
