package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/request"
	"blog-backend/internal/shared/response"
)

// =====================================================
// USER HANDLER
// =====================================================

type UserHandler struct {
	userService   service.ServiceInterface
	authService   service.AuthServiceInterface
	pages         config.PaginationConfig
	avatarMaxSize int64
}

func NewUserHandler(
	userService service.ServiceInterface,
	authService service.AuthServiceInterface,
	pages config.PaginationConfig,
	avatarMaxSize int64,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		authService:   authService,
		pages:         pages,
		avatarMaxSize: avatarMaxSize,
	}
}

// =====================================================
// AUTH ENDPOINTS
// =====================================================

// Register creates an account
// POST /api/auth/register/
func (h *UserHandler) Register(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// Login issues an access/refresh pair
// POST /api/auth/token/
func (h *UserHandler) Login(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pair)
}

// Refresh rotates a refresh token
// POST /api/auth/token/refresh/
func (h *UserHandler) Refresh(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pair)
}

// Verify checks a token
// POST /api/auth/token/verify/
func (h *UserHandler) Verify(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.authService.Verify(c.Request.Context(), payload); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// =====================================================
// USER ENDPOINTS
// =====================================================

// List returns users wrapped in a pagination envelope
// GET /api/users/
func (h *UserHandler) List(c *gin.Context) {
	params := pagination.Parse(c.Request.URL.Query(), h.pages.DefaultLimit, h.pages.MaxLimit)

	list, err := h.userService.List(c.Request.Context(), c.Request.URL.RequestURI(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK,
		pagination.NewEnvelope(pagination.AbsoluteURL(c.Request), params, list.Count, list.Results))
}

// GetByID
// GET /api/users/:id/
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := request.UUIDParam(c, "id", model.ErrUserNotFound)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateMe patches the caller's profile
// PATCH /api/users/me/
func (h *UserHandler) UpdateMe(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), middleware.Principal(c), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateAvatar replaces the caller's avatar from the multipart field "avatar"
// PATCH /api/users/me/avatar/
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	data, err := readAvatar(c, h.avatarMaxSize)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	user, err := h.userService.UpdateAvatar(c.Request.Context(), middleware.Principal(c), data)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// multipartOverhead is the slack allowed on top of the file for boundaries,
// part headers and other form fields.
const multipartOverhead = 64 * 1024

// readAvatar returns nil data when the field is absent; the service reports it.
// Neither the body nor the file is read past maxSize.
func readAvatar(c *gin.Context, maxSize int64) ([]byte, error) {
	limit := maxSize + multipartOverhead
	if c.Request.ContentLength > limit {
		return nil, model.NewAvatarTooLargeError(maxSize)
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile(model.AvatarField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, model.NewAvatarTooLargeError(maxSize)
		case errors.Is(err, http.ErrMissingFile):
			return nil, nil
		}
		return nil, request.ErrInvalidFormat
	}
	if header.Size > maxSize {
		return nil, model.NewAvatarTooLargeError(maxSize)
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// one byte past the limit lets the service report an oversized file
	return io.ReadAll(io.LimitReader(file, maxSize+1))
}
