package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/category/service"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/shared/pagination"
	"blog-backend/internal/shared/request"
	"blog-backend/internal/shared/response"
)

type CategoryHandler struct {
	service service.ServiceInterface
	pages   config.PaginationConfig
}

func NewCategoryHandler(svc service.ServiceInterface, pages config.PaginationConfig) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
		pages:   pages,
	}
}

// ========== LIST: GET /api/categories/ ==========
func (h *CategoryHandler) List(c *gin.Context) {
	params := pagination.Parse(c.Request.URL.Query(), h.pages.DefaultLimit, h.pages.MaxLimit)

	list, err := h.service.List(c.Request.Context(), c.Request.URL.RequestURI(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK,
		pagination.NewEnvelope(pagination.AbsoluteURL(c.Request), params, list.Count, list.Results))
}

// ========== GET: GET /api/categories/:slug/ ==========
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// ========== CREATE: POST /api/categories/ ==========
func (h *CategoryHandler) Create(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	category, err := h.service.Create(c.Request.Context(), middleware.Principal(c), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, category)
}

// ========== UPDATE: PATCH /api/categories/:slug/ ==========
func (h *CategoryHandler) Update(c *gin.Context) {
	payload, err := request.Payload(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	category, err := h.service.Update(c.Request.Context(), middleware.Principal(c), c.Param("slug"), payload)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// ========== DELETE: DELETE /api/categories/:slug/ ==========
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Principal(c), c.Param("slug")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.NoContent(c)
}
