package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/request"
	"blog-backend/internal/shared/response"
)

type PostHandler struct {
	service service.ServiceInterface
	pages   config.PaginationConfig
}

func NewPostHandler(svc service.ServiceInterface, pages config.PaginationConfig) *PostHandler {
	return &PostHandler{
		service: svc,
		pages:   pages,
	}
}

// List returns a plain array; limit and offset come from the query string
// GET /api/posts/?limit=10&offset=0
func (h *PostHandler) List(c *gin.Context) {
	params := pagination.Parse(c.Request.URL.Query(), h.pages.DefaultLimit, h.pages.MaxLimit)

	posts, err := h.service.List(c.Request.Context(), c.Request.URL.RequestURI(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, posts)
}

// GET /api/posts/:slug/
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, post)
}

// POST /api/posts/
func (h *PostHandler) Create(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	post, err := h.service.Create(c.Request.Context(), middleware.Principal(c), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, post)
}

// PATCH /api/posts/:slug/
func (h *PostHandler) Update(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	post, err := h.service.Update(c.Request.Context(), middleware.Principal(c), c.Param("slug"), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, post)
}

// DELETE /api/posts/:slug/
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Principal(c), c.Param("slug")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.NoContent(c)
}
