package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`

	// PostSlug is joined from posts on reads; it is not a column of comments.
	PostSlug string `db:"post_slug"`
}

func (c *Comment) ToResponse() *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// ToMessage is the wire shape published on the comments channel.
func (c *Comment) ToMessage() *CommentMessage {
	return &CommentMessage{
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
