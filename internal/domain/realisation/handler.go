package realisation

import (
	"errors"
	"net/http"
	"strconv"

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

// List handles GET /api/realisations?featured=true and GET /api/admin/realisations
func (h *Handler) List(c *gin.Context) {
	featured, _ := strconv.ParseBool(c.Query("featured"))
	items, err := h.service.List(c.Request.Context(), featured)
	if err != nil {
		h.fail(c, "list realisations", err)
		return
	}
	if items == nil {
		items = []Realisation{}
	}
	response.Success(c, http.StatusOK, items)
}

// GetBySlug handles GET /api/realisations/:slug
func (h *Handler) GetBySlug(c *gin.Context) {
	re, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, "get realisation", err)
		return
	}
	response.Success(c, http.StatusOK, re)
}

// Get handles GET /api/admin/realisations/:id
func (h *Handler) Get(c *gin.Context) {
	re, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get realisation", err)
		return
	}
	response.Success(c, http.StatusOK, re)
}

// Create handles POST /api/admin/realisations
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if !bind(c, &req) {
		return
	}
	re, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "create realisation", err)
		return
	}
	response.Success(c, http.StatusCreated, re)
}

// Update handles PUT /api/admin/realisations/:id
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if !bind(c, &req) {
		return
	}
	re, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.fail(c, "update realisation", err)
		return
	}
	response.Success(c, http.StatusOK, re)
}

// Delete handles DELETE /api/admin/realisations/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete realisation", err)
		return
	}
	c.Status(http.StatusNoContent)
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

func (h *Handler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, ErrRealisationNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Realisation not found")
	case errors.Is(err, ErrSlugTaken):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	case errors.Is(err, ErrInvalidSlug):
		response.Error(c, http.StatusUnprocessableEntity, response.CodeValidation, err.Error())
	default:
		h.log.Error(op, zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
	}
}
