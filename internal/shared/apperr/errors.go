package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error at the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingField
	KindPayloadTooDeep
	KindBadRequest
	KindNotAuthenticated
	KindPermissionDenied
	KindNotFound
	KindAlreadyExists
	KindValidationFailed
	KindRateLimited
)

var kindStatus = map[Kind]int{
	KindInternal:         http.StatusInternalServerError,
	KindMissingField:     http.StatusBadRequest,
	KindPayloadTooDeep:   http.StatusBadRequest,
	KindBadRequest:       http.StatusBadRequest,
	KindNotAuthenticated: http.StatusUnauthorized,
	KindPermissionDenied: http.StatusForbidden,
	KindNotFound:         http.StatusNotFound,
	KindAlreadyExists:    http.StatusConflict,
	KindValidationFailed: http.StatusUnprocessableEntity,
	KindRateLimited:      http.StatusTooManyRequests,
}

// Error is a client-facing failure. Message is safe to return as-is.
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for MissingField
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind and Message so sentinel values compare with errors.Is
// even after being rebuilt.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func MissingField(field string) *Error {
	return &Error{Kind: KindMissingField, Field: field, Message: fmt.Sprintf("Missing required field: %s", field)}
}

func PayloadTooDeep(maxDepth int) *Error {
	return &Error{Kind: KindPayloadTooDeep, Message: fmt.Sprintf("Payload structure exceeds maximum depth of %d", maxDepth)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NotAuthenticated(message string) *Error {
	return &Error{Kind: KindNotAuthenticated, Message: message}
}

func PermissionDenied(reason string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: reason}
}

// NotFound renders "<Model> not found".
func NotFound(model string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", model)}
}

func AlreadyExists(format string, args ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidationFailed, Message: fmt.Sprintf(format, args...)}
}

func RateLimited() *Error {
	return &Error{Kind: KindRateLimited, Message: "Request was throttled. Try again later."}
}

// As unwraps err into an *Error.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to its response status.
func HTTPStatus(err error) int {
	return kindStatus[KindOf(err)]
}
