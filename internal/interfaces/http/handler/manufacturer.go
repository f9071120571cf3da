package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ingestapp "github.com/gwak2837/shabangnet-sub001/internal/application/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/dto"
)

// ManufacturerHandler serves the manufacturer registry
type ManufacturerHandler struct {
	BaseHandler
	service *ingestapp.ManufacturerService
}

// NewManufacturerHandler creates a new ManufacturerHandler
func NewManufacturerHandler(service *ingestapp.ManufacturerService) *ManufacturerHandler {
	return &ManufacturerHandler{service: service}
}

// RegisterRoutes registers manufacturer routes
func (h *ManufacturerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	manufacturers := rg.Group("/manufacturers")
	{
		manufacturers.GET("", h.List)
		manufacturers.GET("/:id", h.Get)
		manufacturers.POST("", h.Create)
		manufacturers.PUT("/:id/contact", h.UpdateContact)
	}
}

// List handles GET /manufacturers
func (h *ManufacturerHandler) List(c *gin.Context) {
	manufacturers, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, manufacturers)
}

// Get handles GET /manufacturers/:id
func (h *ManufacturerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer id")
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, m)
}

// Create handles POST /manufacturers
func (h *ManufacturerHandler) Create(c *gin.Context) {
	var req dto.CreateManufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}

	m, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, m)
}

// UpdateContact handles PUT /manufacturers/:id/contact
func (h *ManufacturerHandler) UpdateContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturer id")
		return
	}
	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}

	m, err := h.service.UpdateContact(c.Request.Context(), id, req.ContactName, req.Phone, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, m)
}
