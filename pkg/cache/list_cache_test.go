package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListCache(t *testing.T) (*cache.ListCache, *infraCache.MemoryCache) {
	t.Helper()
	mem, err := infraCache.NewMemoryCache(128)
	require.NoError(t, err)
	return cache.NewListCache(mem, time.Minute), mem
}

func TestAside_LoadsOnceThenServesCache(t *testing.T) {
	lc, _ := newListCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"first"}, nil
	}

	got, err := cache.Aside(ctx, lc, cache.PostListPrefix, "host/api/posts/?limit=2", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, got)

	got, err = cache.Aside(ctx, lc, cache.PostListPrefix, "host/api/posts/?limit=2", load)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, got)
	assert.Equal(t, 1, calls)

	// a different pagination window is a different entry
	_, err = cache.Aside(ctx, lc, cache.PostListPrefix, "host/api/posts/?limit=2&offset=2", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestAside_LoadErrorIsNotCached(t *testing.T) {
	lc, _ := newListCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := cache.Aside(ctx, lc, cache.PostListPrefix, "k", func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := cache.Aside(ctx, lc, cache.PostListPrefix, "k", func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestInvalidate_ClearsWholePrefixOnly(t *testing.T) {
	lc, mem := newListCache(t)
	ctx := context.Background()

	for _, uri := range []string{"a", "b", "c"} {
		_, err := cache.Aside(ctx, lc, cache.PostListPrefix, uri, func(context.Context) (string, error) { return uri, nil })
		require.NoError(t, err)
	}
	_, err := cache.Aside(ctx, lc, cache.CommentListPrefix, "a", func(context.Context) (string, error) { return "c", nil })
	require.NoError(t, err)

	require.NoError(t, lc.Invalidate(ctx, cache.PostListPrefix))

	for _, uri := range []string{"a", "b", "c"} {
		ok, err := mem.Exists(ctx, lc.Key(cache.PostListPrefix, uri))
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := mem.Exists(ctx, lc.Key(cache.CommentListPrefix, "a"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKey_IsScopedByPrefix(t *testing.T) {
	lc, _ := newListCache(t)

	assert.NotEqual(t, lc.Key(cache.PostListPrefix, "x"), lc.Key(cache.UserListPrefix, "x"))
	assert.Contains(t, lc.Key(cache.UserListPrefix, "x"), "cache:user_list:")
}
