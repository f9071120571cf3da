package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ingestapp "github.com/gwak2837/shabangnet-sub001/internal/application/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/dto"
)

// UploadHandler serves the ingestion run history
type UploadHandler struct {
	BaseHandler
	service *ingestapp.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(service *ingestapp.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// RegisterRoutes registers upload history routes
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	{
		uploads.GET("", h.List)
		uploads.GET("/:id", h.Get)
		uploads.GET("/:id/download", h.Download)
	}
}

// List handles GET /uploads
func (h *UploadHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}
	req.Normalize()

	uploads, total, err := h.service.List(c.Request.Context(), req.Offset(), req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, uploads, total, req.Page, req.PageSize)
}

// Get handles GET /uploads/:id
func (h *UploadHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid upload id")
		return
	}

	upload, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// Download handles GET /uploads/:id/download
func (h *UploadHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid upload id")
		return
	}

	url, expiresAt, err := h.service.DownloadURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.DownloadResponse{URL: url, ExpiresAt: expiresAt})
}
