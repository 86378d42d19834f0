package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is authored once; AuthorID and Slug never change after Create.
type Post struct {
	ID         int64     `db:"id"`
	AuthorID   uuid.UUID `db:"author_id"`
	CategoryID *int64    `db:"category_id"`
	Title      string    `db:"title"`
	Slug       string    `db:"slug"`
	Body       string    `db:"body"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (p *Post) ToResponse() *PostResponse {
	return &PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Body:       p.Body,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
	}
}
