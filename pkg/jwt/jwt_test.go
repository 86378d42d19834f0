package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	infraCache "blog-backend/internal/infrastructure/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	mem, err := infraCache.NewMemoryCache(64)
	require.NoError(t, err)
	return NewManager("test-secret", 15*time.Minute, 72*time.Hour, NewCacheBlacklist(mem))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newManager(t)
	userID := uuid.NewString()

	token, err := m.GenerateAccessToken(userID, "jane@example.com", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.NotEmpty(t, claims.ID)

	_, err = m.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Rejects(t *testing.T) {
	m := newManager(t)
	token, err := m.GenerateAccessToken(uuid.NewString(), "a@b.c", false)
	require.NoError(t, err)

	other := NewManager("other-secret", time.Minute, time.Hour, nil)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestRotate_BlacklistsOldRefreshToken(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	pair, err := m.GeneratePair(uuid.NewString(), "jane@example.com", false)
	require.NoError(t, err)

	rotated, err := m.Rotate(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, rotated.Refresh)

	_, err = m.ValidateAccessToken(rotated.Access)
	require.NoError(t, err)

	_, err = m.Rotate(ctx, pair.Refresh)
	assert.True(t, errors.Is(err, ErrRevoked))

	_, err = m.Rotate(ctx, rotated.Access)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot be rotated")
}

func TestVerify(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	pair, err := m.GeneratePair(uuid.NewString(), "jane@example.com", false)
	require.NoError(t, err)

	assert.NoError(t, m.Verify(ctx, pair.Access))
	assert.NoError(t, m.Verify(ctx, pair.Refresh))
	assert.ErrorIs(t, m.Verify(ctx, "not-a-token"), ErrInvalidToken)

	_, err = m.Rotate(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Verify(ctx, pair.Refresh), ErrRevoked)
}
