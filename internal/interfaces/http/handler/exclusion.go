package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ingestapp "github.com/gwak2837/shabangnet-sub001/internal/application/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/dto"
)

// ExclusionHandler manages fulfillment-type exclusion patterns
type ExclusionHandler struct {
	BaseHandler
	service *ingestapp.ExclusionService
}

// NewExclusionHandler creates a new ExclusionHandler
func NewExclusionHandler(service *ingestapp.ExclusionService) *ExclusionHandler {
	return &ExclusionHandler{service: service}
}

// RegisterRoutes registers exclusion pattern routes
func (h *ExclusionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	patterns := rg.Group("/exclusion-patterns")
	{
		patterns.GET("", h.List)
		patterns.POST("", h.Create)
		patterns.PATCH("/:id", h.SetEnabled)
		patterns.DELETE("/:id", h.Delete)
	}
}

// List handles GET /exclusion-patterns
func (h *ExclusionHandler) List(c *gin.Context) {
	patterns, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, patterns)
}

// Create handles POST /exclusion-patterns
func (h *ExclusionHandler) Create(c *gin.Context) {
	var req dto.CreatePatternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.Pattern)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// SetEnabled handles PATCH /exclusion-patterns/:id
func (h *ExclusionHandler) SetEnabled(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pattern id")
		return
	}
	var req dto.SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}

	p, err := h.service.SetEnabled(c.Request.Context(), id, *req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete handles DELETE /exclusion-patterns/:id
func (h *ExclusionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pattern id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
