package request

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/shared/apperr"
)

var ErrInvalidFormat = apperr.BadRequest("Invalid data format")

// Payload decodes a JSON object body. An empty body is an empty payload so
// that missing fields are reported by name rather than as a format error.
func Payload(c *gin.Context) (map[string]any, error) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, ErrInvalidFormat
	}
	if payload == nil {
		// literal null
		return nil, ErrInvalidFormat
	}
	return payload, nil
}

// UUIDParam parses a path parameter; a malformed id cannot match anything.
func UUIDParam(c *gin.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// Int64Param parses a numeric path parameter.
func Int64Param(c *gin.Context, name string, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}
