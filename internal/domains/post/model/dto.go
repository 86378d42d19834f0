package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CreatePostRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Status     string `json:"status"`
	CategoryID *int64 `json:"category_id"`
}

// UpdatePostRequest is a partial update. A null category_id clears the
// category, which a nil pointer alone cannot express.
type UpdatePostRequest struct {
	Title         *string `json:"title"`
	Body          *string `json:"body"`
	Status        *string `json:"status"`
	CategoryID    *int64  `json:"category_id"`
	ClearCategory bool    `json:"-"`
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type PostResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Body       string    `json:"body"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	AuthorID   uuid.UUID `json:"author_id"`
	CategoryID *int64    `json:"category_id"`
}
