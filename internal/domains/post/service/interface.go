package service

import (
	"context"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
)

// =====================================================
// POST SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// List returns one window in creation order, cached under post_list
	List(ctx context.Context, requestKey string, params pagination.Params) ([]*model.PostResponse, error)

	GetBySlug(ctx context.Context, slug string) (*model.PostResponse, error)

	// Create requires an authenticated principal, who becomes the author
	Create(ctx context.Context, principal *permission.Principal, payload map[string]any) (*model.PostResponse, error)

	// Update and Delete are restricted to the author
	Update(ctx context.Context, principal *permission.Principal, slug string, payload map[string]any) (*model.PostResponse, error)
	Delete(ctx context.Context, principal *permission.Principal, slug string) error
}
