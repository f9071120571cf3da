package handler

import (
	"github.com/gin-gonic/gin"
	ingestapp "github.com/gwak2837/shabangnet-sub001/internal/application/ingest"
)

// IngestHandler exposes the ingestion entry points. Both endpoints accept a
// multipart upload and respond with the structured run result.
type IngestHandler struct {
	BaseHandler
	service *ingestapp.IngestService
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(service *ingestapp.IngestService) *IngestHandler {
	return &IngestHandler{service: service}
}

// RegisterRoutes registers ingestion routes
func (h *IngestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ingest := rg.Group("/ingest")
	{
		ingest.POST("/mall", h.IngestMall)
		ingest.POST("/platform", h.IngestPlatform)
	}
}

// IngestMall handles POST /ingest/mall
// Form fields: mall_name (template selector), file (xlsx upload)
func (h *IngestHandler) IngestMall(c *gin.Context) {
	mallName := c.PostForm("mall_name")
	if mallName == "" {
		h.BadRequest(c, "mall_name is required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	result, err := h.service.IngestMallFile(c.Request.Context(), mallName, header.Filename, header.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// IngestPlatform handles POST /ingest/platform
func (h *IngestHandler) IngestPlatform(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	result, err := h.service.IngestPlatformFile(c.Request.Context(), header.Filename, header.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
