package model

import (
	"errors"
	"strings"

	"blog-backend/internal/shared/apperr"
)

var (
	ErrUserNotFound       = apperr.NotFound("User")
	ErrInvalidCredentials = apperr.NotAuthenticated("No active account found with the given credentials")
	ErrInvalidEmail       = apperr.Validation("Enter a valid email address.")
	ErrAvatarNotImage     = apperr.Validation("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

	// ErrDuplicateEmail is returned by the repository on the users_email_key violation.
	ErrDuplicateEmail = errors.New("duplicate email")
)

func NewUserAlreadyExistsError(email string) *apperr.Error {
	return apperr.AlreadyExists("User with the email '%s' already exists", email)
}

func NewAvatarTooLargeError(maxBytes int64) *apperr.Error {
	return apperr.Validation("Avatar file size must not exceed %d MB", maxBytes/(1024*1024))
}

func NewAvatarDimensionsError(maxPixels int64) *apperr.Error {
	return apperr.Validation("Avatar image must not exceed %d pixels", maxPixels)
}

func NewAvatarFormatError(formats []string) *apperr.Error {
	return apperr.Validation("Unsupported image format. Allowed formats: %s", strings.Join(formats, ", "))
}
