package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract shared by the Redis and in-memory backends.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false means a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error

	// DeletePattern removes every key matching a glob pattern (e.g. "cache:post_list:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Counters, used by the rate limiter.
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
