package article

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/pkg/response"
	"diezagency/internal/pkg/validator"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// ListPublished handles GET /api/articles?category=
func (h *Handler) ListPublished(c *gin.Context) {
	articles, err := h.service.ListPublished(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.fail(c, "list articles", err)
		return
	}
	respondList(c, articles)
}

// GetPublished handles GET /api/articles/:slug
func (h *Handler) GetPublished(c *gin.Context) {
	view, err := h.service.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, "get article", err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// Categories handles GET /api/articles/categories
func (h *Handler) Categories(c *gin.Context) {
	response.Success(c, http.StatusOK, Categories())
}

// ListAll handles GET /api/admin/articles
func (h *Handler) ListAll(c *gin.Context) {
	articles, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, "list articles", err)
		return
	}
	respondList(c, articles)
}

// Get handles GET /api/admin/articles/:id
func (h *Handler) Get(c *gin.Context) {
	a, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get article", err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Create handles POST /api/admin/articles
func (h *Handler) Create(c *gin.Context) {
	var req CreateArticleRequest
	if !bind(c, &req) {
		return
	}
	a, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "create article", err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// Update handles PUT /api/admin/articles/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateArticleRequest
	if !bind(c, &req) {
		return
	}
	a, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, "update article", err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Delete handles DELETE /api/admin/articles/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete article", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Preview handles POST /api/admin/articles/preview
func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if !bind(c, &req) {
		return
	}
	html, err := h.service.Preview(req.Content)
	if err != nil {
		h.fail(c, "preview article", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"html": html})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidJSON, "Invalid JSON body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Validation failed", errs)
		return false
	}
	return true
}

func respondList(c *gin.Context, articles []Article) {
	if articles == nil {
		articles = []Article{}
	}
	response.Success(c, http.StatusOK, ListResponse{Articles: articles, Total: len(articles)})
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrArticleNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Article not found")
	case errors.Is(err, ErrSlugTaken):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	case errors.Is(err, ErrInvalidSlug), errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
	default:
		h.log.Error(op, zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
	}
}
