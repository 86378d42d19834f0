package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// List cache prefixes. Every write to a resource type clears its whole prefix.
const (
	PostListPrefix     = "post_list"
	CommentListPrefix  = "comment_list"
	CategoryListPrefix = "category_list"
	UserListPrefix     = "user_list"
)

// ListCache is a cache-aside wrapper for list endpoints. Entries live for a
// fixed TTL under "cache:<prefix>:<request hash>".
type ListCache struct {
	cache Cache
	ttl   time.Duration
}

func NewListCache(c Cache, ttl time.Duration) *ListCache {
	return &ListCache{cache: c, ttl: ttl}
}

// Key builds the entry key for a request under prefix. requestKey should be
// the full request identity (host plus URI with query) so every pagination
// window gets its own entry.
func (lc *ListCache) Key(prefix, requestKey string) string {
	sum := sha1.Sum([]byte(requestKey))
	return fmt.Sprintf("cache:%s:%s", prefix, hex.EncodeToString(sum[:]))
}

func pattern(prefix string) string {
	return fmt.Sprintf("cache:%s:*", prefix)
}

// Aside returns the cached value for requestKey or runs load and stores its
// result. Cache failures degrade to a miss; only load errors are returned.
func Aside[T any](ctx context.Context, lc *ListCache, prefix, requestKey string, load func(context.Context) (T, error)) (T, error) {
	key := lc.Key(prefix, requestKey)
	logger := zerolog.Ctx(ctx)

	var cached T
	found, err := lc.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("list cache read failed")
	} else if found {
		return cached, nil
	}

	fresh, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := lc.cache.Set(ctx, key, fresh, lc.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("list cache write failed")
	}
	return fresh, nil
}

// Invalidate drops every entry under each prefix.
func (lc *ListCache) Invalidate(ctx context.Context, prefixes ...string) error {
	for _, prefix := range prefixes {
		if err := lc.cache.DeletePattern(ctx, pattern(prefix)); err != nil {
			return fmt.Errorf("invalidate %s: %w", prefix, err)
		}
	}
	return nil
}

// InvalidateOrLog is Invalidate for callers whose write has already been
// committed: a failure is logged, never returned.
func (lc *ListCache) InvalidateOrLog(ctx context.Context, prefixes ...string) {
	if err := lc.Invalidate(ctx, prefixes...); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Strs("prefixes", prefixes).Msg("list cache invalidation failed")
	}
}
