package venues

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuelink/backend/internal/middleware"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

// Handler handles venue HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a venues handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateVenueRequest is the body for POST /venues.
type CreateVenueRequest struct {
	Name           string           `json:"name" binding:"required,min=3,max=100"`
	Type           models.VenueType `json:"type" binding:"required,oneof=bar restaurant event_space cafe"`
	Capacity       int              `json:"capacity" binding:"required,min=10,max=500"`
	BasePriceCents int              `json:"base_price_cents" binding:"required,min=10000,max=100000"`
	AddressStreet  *string          `json:"address_street" binding:"omitempty,max=255"`
	AddressCity    *string          `json:"address_city" binding:"omitempty,max=100"`
	AddressState   *string          `json:"address_state" binding:"omitempty,len=2,alpha,uppercase"`
	AddressZip     *string          `json:"address_zip" binding:"omitempty,max=10"`
}

// UpdateVenueRequest is the body for PATCH /venues/:id. Omitted fields are unchanged.
type UpdateVenueRequest struct {
	Name           *string           `json:"name" binding:"omitempty,min=3,max=100"`
	Type           *models.VenueType `json:"type" binding:"omitempty,oneof=bar restaurant event_space cafe"`
	Capacity       *int              `json:"capacity" binding:"omitempty,min=10,max=500"`
	BasePriceCents *int              `json:"base_price_cents" binding:"omitempty,min=10000,max=100000"`
	AddressStreet  *string           `json:"address_street" binding:"omitempty,max=255"`
	AddressCity    *string           `json:"address_city" binding:"omitempty,max=100"`
	AddressState   *string           `json:"address_state" binding:"omitempty,len=2,alpha,uppercase"`
	AddressZip     *string           `json:"address_zip" binding:"omitempty,max=10"`
}

// ListVenuesQuery holds GET /venues query parameters.
type ListVenuesQuery struct {
	Type          string `form:"type" binding:"omitempty,oneof=bar restaurant event_space cafe"`
	MinCapacity   *int   `form:"min_capacity" binding:"omitempty,min=1"`
	MaxCapacity   *int   `form:"max_capacity" binding:"omitempty,min=1"`
	MaxPriceCents *int   `form:"max_price_cents" binding:"omitempty,min=0"`
	Search        string `form:"search"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// VenueID parses the :id path parameter, writing a 400 on failure.
func VenueID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid venue id")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /venues.
func (h *Handler) Create(c *gin.Context) {
	var body CreateVenueRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Unprocessable(c, "invalid request: "+err.Error())
		return
	}
	v := &models.Venue{
		Name:           body.Name,
		Type:           body.Type,
		Capacity:       body.Capacity,
		BasePriceCents: body.BasePriceCents,
		AddressStreet:  body.AddressStreet,
		AddressCity:    body.AddressCity,
		AddressState:   body.AddressState,
		AddressZip:     body.AddressZip,
	}
	created, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), v)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Get handles GET /venues/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := VenueID(c)
	if !ok {
		return
	}
	v, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, v)
}

// List handles GET /venues.
func (h *Handler) List(c *gin.Context) {
	var q ListVenuesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Unprocessable(c, "invalid query: "+err.Error())
		return
	}
	f := models.VenueFilter{
		MinCapacity:   q.MinCapacity,
		MaxCapacity:   q.MaxCapacity,
		MaxPriceCents: q.MaxPriceCents,
		Search:        q.Search,
		Page:          q.Page,
		PageSize:      q.PageSize,
	}
	if q.Type != "" {
		t := models.VenueType(q.Type)
		f.Type = &t
	}
	page, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(page.Total))
	response.OK(c, page)
}

// Update handles PATCH /venues/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := VenueID(c)
	if !ok {
		return
	}
	var body UpdateVenueRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Unprocessable(c, "invalid request: "+err.Error())
		return
	}
	v, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), id, models.VenueUpdate(body))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, v)
}

// Delete handles DELETE /venues/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := VenueID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
