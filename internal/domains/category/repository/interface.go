package repository

import (
	"context"

	"blog-backend/internal/domains/category/model"
)

type CategoryRepository interface {
	// Create assigns ID and a unique Slug derived from Name
	Create(ctx context.Context, category *model.Category) error
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, limit, offset int) ([]*model.Category, int64, error)
	// Update renames; the slug is kept
	Update(ctx context.Context, category *model.Category) error
	// Delete leaves the category's posts uncategorized (ON DELETE SET NULL)
	Delete(ctx context.Context, id int64) error
}
