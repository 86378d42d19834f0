package repository

import (
	"context"

	"blog-backend/internal/domains/comment/model"
)

type CommentRepository interface {
	// Create attaches the comment to the post with postSlug inside one
	// transaction. Returns model.ErrPostNotFound when the post is gone.
	Create(ctx context.Context, postSlug string, comment *model.Comment) error

	// GetByID returns model.ErrCommentNotFound when absent; PostSlug is filled
	GetByID(ctx context.Context, id int64) (*model.Comment, error)

	// ListByPostSlug returns one window in creation (id) order; an unknown
	// slug yields an empty list
	ListByPostSlug(ctx context.Context, postSlug string, limit, offset int) ([]*model.Comment, error)

	UpdateBody(ctx context.Context, id int64, body string) error

	Delete(ctx context.Context, id int64) error
}
