package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/user/model"
)

// =====================================================
// USER REPOSITORY INTERFACE
// =====================================================

type UserRepository interface {
	// Create inserts a user; model.ErrDuplicateEmail on the email constraint
	Create(ctx context.Context, user *model.User) error

	// GetByID returns model.ErrUserNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail returns model.ErrUserNotFound when absent
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List returns users in date_joined order plus the total count
	List(ctx context.Context, limit, offset int) ([]*model.User, int64, error)

	// UpdateProfile writes first_name and last_name
	UpdateProfile(ctx context.Context, user *model.User) error

	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar *string) error
}
