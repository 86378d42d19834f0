package repository

import (
	"context"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// POST REPOSITORY INTERFACE
// =====================================================

type PostRepository interface {
	// Create assigns ID, a unique Slug derived from Title, and timestamps.
	// Returns model.ErrUnknownCategory when CategoryID does not exist.
	Create(ctx context.Context, post *model.Post) error

	// GetBySlug returns model.ErrPostNotFound when absent
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)

	// List returns one window of posts in creation (id) order
	List(ctx context.Context, limit, offset int) ([]*model.Post, error)

	// Update writes title, body, status, category_id and updated_at
	Update(ctx context.Context, post *model.Post) error

	// Delete removes the post; its comments go with it (ON DELETE CASCADE)
	Delete(ctx context.Context, id int64) error
}
