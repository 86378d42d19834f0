package model

import (
	"fmt"

	"blog-backend/internal/shared/apperr"
)

var (
	ErrCommentNotFound = apperr.NotFound("Comment")
	ErrPostNotFound    = apperr.NotFound("Post")
	ErrNotInPost       = &apperr.Error{Kind: apperr.KindNotFound, Message: "Comment doesn't belong to this post"}
)

func UpdateDeniedMessage(email string) string {
	return fmt.Sprintf("User %s doesn't have permissions to update this comment", email)
}

func DeleteDeniedMessage(email string) string {
	return fmt.Sprintf("User %s doesn't have permissions to delete this comment", email)
}
