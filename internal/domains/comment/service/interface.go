package service

import (
	"context"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/permission"
)

type ServiceInterface interface {
	// List is cached under comment_list, keyed by requestKey
	List(ctx context.Context, postSlug, requestKey string, params pagination.Params) ([]*model.CommentResponse, error)

	// Create persists the comment, then publishes it on the comments channel
	Create(ctx context.Context, principal *permission.Principal, postSlug string, payload map[string]any) (*model.CommentResponse, error)

	// Update and Delete are restricted to the author and require the
	// comment to belong to postSlug
	Update(ctx context.Context, principal *permission.Principal, postSlug string, id int64, payload map[string]any) error
	Delete(ctx context.Context, principal *permission.Principal, postSlug string, id int64) error
}
