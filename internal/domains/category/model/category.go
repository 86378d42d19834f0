package model

import "blog-backend/internal/shared/apperr"

const (
	NameMaxLength = 100
	SlugMaxLength = 120
	SlugFallback  = "category"
)

var ErrCategoryNotFound = apperr.NotFound("Category")

type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// CategoryList is one page of categories plus the total, as cached.
type CategoryList struct {
	Count   int64       `json:"count"`
	Results []*Category `json:"results"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}
