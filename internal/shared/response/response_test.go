package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"blog-backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/posts/", nil)
	return c, w
}

func TestHandleError_KnownKind(t *testing.T) {
	c, w := newContext()

	HandleError(c, apperr.MissingField("title"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing required field: title"}`, w.Body.String())
}

func TestHandleError_UnexpectedErrorIsHidden(t *testing.T) {
	c, w := newContext()

	HandleError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
