package model

import (
	"errors"

	"blog-backend/internal/shared/apperr"
)

const (
	UpdateDeniedMessage = "You don't have enough permissions to update this post"
	DeleteDeniedMessage = "You don't have enough permissions to delete this post"
)

var (
	ErrPostNotFound = apperr.NotFound("Post")

	// ErrUnknownCategory is returned by the repository on the category foreign key.
	ErrUnknownCategory = errors.New("unknown category")
)

func NewUnknownCategoryError(id int64) *apperr.Error {
	return apperr.Validation("Invalid pk \"%d\" - object does not exist.", id)
}
