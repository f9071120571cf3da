package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ingestapp "github.com/gwak2837/shabangnet-sub001/internal/application/ingest"
	"github.com/gwak2837/shabangnet-sub001/internal/interfaces/http/dto"
)

// TemplateHandler manages the mall template registry
type TemplateHandler struct {
	BaseHandler
	service *ingestapp.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(service *ingestapp.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// RegisterRoutes registers template routes
func (h *TemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	templates := rg.Group("/templates")
	{
		templates.GET("", h.List)
		templates.GET("/:id", h.Get)
		templates.POST("", h.Create)
		templates.PUT("/:id", h.Update)
		templates.DELETE("/:id", h.Delete)
	}
}

// List handles GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, templates)
}

// Get handles GET /templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template id")
		return
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Create handles POST /templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}
	t, err := req.ToTemplate()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.service.Create(c.Request.Context(), t); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// Update handles PUT /templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template id")
		return
	}
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindingErrorMessage(err))
		return
	}
	update, err := req.ToTemplate()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), id, update)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete handles DELETE /templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
