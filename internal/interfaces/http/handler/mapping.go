package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ingestapp "github.com/gwak2837/shabangnet-sub001/internal/application/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/dto"
)

// MappingHandler serves the option-mapping work queue
type MappingHandler struct {
	BaseHandler
	service *ingestapp.LinkingService
}

// NewMappingHandler creates a new MappingHandler
func NewMappingHandler(service *ingestapp.LinkingService) *MappingHandler {
	return &MappingHandler{service: service}
}

// RegisterRoutes registers option-mapping routes
func (h *MappingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	mappings := rg.Group("/option-mappings")
	{
		mappings.GET("", h.List)
		mappings.POST("/:id/assign", h.Assign)
	}
}

// List handles GET /option-mappings. With unresolved=true only the open work
// items are returned.
func (h *MappingHandler) List(c *gin.Context) {
	var (
		err      error
		mappings interface{}
	)
	if c.Query("unresolved") == "true" {
		mappings, err = h.service.ListUnresolved(c.Request.Context())
	} else {
		mappings, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mappings)
}

// Assign handles POST /option-mappings/:id/assign
func (h *MappingHandler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mapping id")
		return
	}
	var req dto.AssignMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}
	manufacturerID, err := uuid.Parse(req.ManufacturerID)
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer id")
		return
	}

	result, err := h.service.Assign(c.Request.Context(), id, manufacturerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
