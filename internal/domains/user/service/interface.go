package service

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
	"blog-backend/pkg/jwt"
)

// =====================================================
// USER SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// Register validates, hashes the password and creates the user
	Register(ctx context.Context, payload map[string]any) (*model.RegisterResponse, error)

	// List is cached under the user_list prefix, keyed by requestKey
	List(ctx context.Context, requestKey string, params pagination.Params) (*model.UserList, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)

	// UpdateMe partially updates the caller's own profile
	UpdateMe(ctx context.Context, principal *permission.Principal, payload map[string]any) (*model.UserResponse, error)

	// UpdateAvatar replaces the caller's avatar; the previous folder is removed afterwards
	UpdateAvatar(ctx context.Context, principal *permission.Principal, data []byte) (*model.UserResponse, error)
}

// =====================================================
// AUTH SERVICE INTERFACE
// =====================================================

type AuthServiceInterface interface {
	// Login exchanges email and password for an access/refresh pair
	Login(ctx context.Context, payload map[string]any) (*jwt.TokenPair, error)

	// Refresh rotates a refresh token
	Refresh(ctx context.Context, payload map[string]any) (*jwt.TokenPair, error)

	// Verify succeeds for any valid, non-revoked token
	Verify(ctx context.Context, payload map[string]any) error
}

// AvatarCleanupEnqueuer hands prior avatar folders to the background worker.
type AvatarCleanupEnqueuer interface {
	EnqueueAvatarCleanup(ctx context.Context, userID, prefix string) error
}
