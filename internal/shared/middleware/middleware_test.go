package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/shared/permission"
	"blog-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	assert.Equal(t, incoming, serve(r, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	assert.NotEqual(t, "<script>", serve(r, req).Header().Get(RequestIDHeader))
}

func TestAuthenticate(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Minute, time.Hour, nil)
	userID := uuid.New()

	r := gin.New()
	r.Use(Authenticate(tokens))
	r.GET("/", func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, p.UserID.String())
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	access, err := tokens.GenerateAccessToken(userID.String(), "u@example.com", false)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w = serve(r, req)
	assert.Equal(t, userID.String(), w.Body.String())

	refresh, err := tokens.GenerateRefreshToken(userID.String(), "u@example.com", false)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens are not access tokens")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRateLimit(t *testing.T) {
	mem, err := infraCache.NewMemoryCache(64)
	require.NoError(t, err)

	r := gin.New()
	r.Use(ClientIP())
	r.POST("/", RateLimit(NewCacheLimiter(mem), "post_create", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req)
	}

	assert.Equal(t, http.StatusCreated, post("192.0.2.1").Code)
	assert.Equal(t, http.StatusCreated, post("192.0.2.1").Code)

	w := post("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"error"`)

	assert.Equal(t, http.StatusCreated, post("192.0.2.2").Code, "limits are per IP")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestPrincipalHelper(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, Principal(c))

	p := &permission.Principal{UserID: uuid.New()}
	c.Request = c.Request.WithContext(permission.WithPrincipal(c.Request.Context(), p))
	assert.Same(t, p, Principal(c))
}

func TestAuthorize(t *testing.T) {
	staff := &permission.Principal{UserID: uuid.New(), IsStaff: true}
	member := &permission.Principal{UserID: uuid.New()}

	newRouter := func(p *permission.Principal) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if p != nil {
				c.Request = c.Request.WithContext(permission.WithPrincipal(c.Request.Context(), p))
			}
			c.Next()
		})
		r.POST("/", Authorize(permission.RequireStaff), func(c *gin.Context) { c.Status(http.StatusCreated) })
		return r
	}

	w := serve(newRouter(nil), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authentication credentials were not provided."}`, w.Body.String())

	w = serve(newRouter(member), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(newRouter(staff), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}
