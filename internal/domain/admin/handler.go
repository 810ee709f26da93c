package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/pkg/response"
)

// Handler serves the dashboard endpoints.
type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// GetStats handles GET /api/admin/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("dashboard stats", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// ListAdmins handles GET /api/admin/admins
func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error("list admins", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
		return
	}
	if admins == nil {
		admins = []AdminUser{}
	}
	response.Success(c, http.StatusOK, admins)
}
