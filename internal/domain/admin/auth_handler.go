package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/pkg/response"
	"diezagency/internal/pkg/validator"
)

type AuthHandler struct {
	service *Service
	log     *zap.Logger
}

func NewAuthHandler(service *Service, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
	Admin       *AdminUser `json:"admin"`
}

// Login handles POST /api/admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidJSON, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, response.CodeValidation, "Validation failed", errs)
		return
	}

	token, admin, err := h.service.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAccountDisabled):
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid email or password")
		case errors.Is(err, ErrAccountLocked):
			response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, "Too many failed attempts, try again later")
		default:
			h.log.Error("admin login", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
		}
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(h.service.jwt.TTL().Seconds()),
		Admin:       admin,
	})
}

// GetMe handles GET /api/admin/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	adminID := c.GetString("admin_id")
	if adminID == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	admin, err := h.service.GetAdminByID(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Admin not found")
			return
		}
		h.log.Error("get admin", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, admin)
}
