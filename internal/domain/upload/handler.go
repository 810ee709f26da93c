package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"diezagency/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Upload handles POST /api/admin/uploads (multipart: file, folder)
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "No file provided")
		return
	}

	u, err := h.service.Upload(c.Request.Context(), c.GetString("admin_id"), c.PostForm("folder"), fh)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType), errors.Is(err, ErrInvalidFolder):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeValidation, err.Error())
		default:
			h.log.Error("upload failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Upload failed")
		}
		return
	}
	response.Success(c, http.StatusCreated, u)
}

// List handles GET /api/admin/uploads?folder=
func (h *Handler) List(c *gin.Context) {
	uploads, err := h.service.List(c.Request.Context(), c.Query("folder"))
	if err != nil {
		if errors.Is(err, ErrInvalidFolder) {
			response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
			return
		}
		h.log.Error("list uploads", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to list uploads")
		return
	}
	if uploads == nil {
		uploads = []Upload{}
	}
	response.Success(c, http.StatusOK, uploads)
}

// GetByID handles GET /api/admin/uploads/:id
func (h *Handler) GetByID(c *gin.Context) {
	u, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOr(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Delete handles DELETE /api/admin/uploads/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.notFoundOr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) notFoundOr(c *gin.Context, err error) {
	if errors.Is(err, ErrUploadNotFound) {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Upload not found")
		return
	}
	h.log.Error("upload operation failed", zap.Error(err))
	response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
}
