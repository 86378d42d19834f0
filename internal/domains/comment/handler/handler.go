package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/domains/comment/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/request"
	"blog-backend/internal/shared/response"
)

type CommentHandler struct {
	service service.ServiceInterface
	pages   config.PaginationConfig
}

func NewCommentHandler(svc service.ServiceInterface, pages config.PaginationConfig) *CommentHandler {
	return &CommentHandler{
		service: svc,
		pages:   pages,
	}
}

// GET /api/posts/:slug/comments/?limit=10&offset=0
func (h *CommentHandler) List(c *gin.Context) {
	params := pagination.Parse(c.Request.URL.Query(), h.pages.DefaultLimit, h.pages.MaxLimit)

	comments, err := h.service.List(c.Request.Context(), c.Param("slug"), c.Request.URL.RequestURI(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comments)
}

// POST /api/posts/:slug/comments/
func (h *CommentHandler) Create(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	comment, err := h.service.Create(c.Request.Context(), middleware.Principal(c), c.Param("slug"), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

// PATCH /api/posts/:slug/comments/:id/
func (h *CommentHandler) Update(c *gin.Context) {
	id, err := request.Int64Param(c, "id", model.ErrCommentNotFound)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), middleware.Principal(c), c.Param("slug"), id, payload); err != nil {
		response.HandleError(c, err)
		return
	}

	response.NoContent(c)
}

// DELETE /api/posts/:slug/comments/:id/
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := request.Int64Param(c, "id", model.ErrCommentNotFound)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.Principal(c), c.Param("slug"), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.NoContent(c)
}
