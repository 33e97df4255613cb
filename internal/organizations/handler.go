package organizations

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuelink/backend/internal/middleware"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an organizations handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateOrganizationRequest is the body for POST /organizations.
type CreateOrganizationRequest struct {
	Name         string                  `json:"name" binding:"required,min=2,max=255"`
	Type         models.OrganizationType `json:"type" binding:"required,oneof=fraternity sorority club other"`
	University   string                  `json:"university" binding:"required,max=255"`
	Description  *string                 `json:"description" binding:"omitempty,max=2000"`
	ContactEmail *string                 `json:"contact_email" binding:"omitempty,email,max=255"`
	ContactPhone *string                 `json:"contact_phone" binding:"omitempty,max=50"`
	MemberCount  *int                    `json:"member_count" binding:"omitempty,min=1,max=100000"`
	WebsiteURL   *string                 `json:"website_url" binding:"omitempty,max=500"`
}

// UpdateOrganizationRequest is the body for PATCH /organizations/:id. Omitted fields are unchanged.
type UpdateOrganizationRequest struct {
	Name         *string                  `json:"name" binding:"omitempty,min=2,max=255"`
	Type         *models.OrganizationType `json:"type" binding:"omitempty,oneof=fraternity sorority club other"`
	University   *string                  `json:"university" binding:"omitempty,min=1,max=255"`
	Description  *string                  `json:"description" binding:"omitempty,max=2000"`
	ContactEmail *string                  `json:"contact_email" binding:"omitempty,email,max=255"`
	ContactPhone *string                  `json:"contact_phone" binding:"omitempty,max=50"`
	MemberCount  *int                     `json:"member_count" binding:"omitempty,min=1,max=100000"`
	WebsiteURL   *string                  `json:"website_url" binding:"omitempty,max=500"`
}

func orgID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return uuid.Nil, false
	}
	return id, true
}

// GetMine handles GET /organizations/me.
func (h *Handler) GetMine(c *gin.Context) {
	org, err := h.svc.GetMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, org)
}

// Get handles GET /organizations/:id.
func (h *Handler) Get(c *gin.Context) {
	id, ok := orgID(c)
	if !ok {
		return
	}
	org, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, org)
}

// Create handles POST /organizations.
func (h *Handler) Create(c *gin.Context) {
	var body CreateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Unprocessable(c, "invalid request: "+err.Error())
		return
	}
	org := &models.Organization{
		Name:         body.Name,
		Type:         body.Type,
		University:   body.University,
		Description:  body.Description,
		ContactEmail: body.ContactEmail,
		ContactPhone: body.ContactPhone,
		MemberCount:  body.MemberCount,
		WebsiteURL:   body.WebsiteURL,
	}
	created, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), org)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update handles PATCH /organizations/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := orgID(c)
	if !ok {
		return
	}
	var body UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Unprocessable(c, "invalid request: "+err.Error())
		return
	}
	org, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), id, models.OrganizationUpdate(body))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, org)
}

// UploadLogo handles POST /organizations/:id/logo (multipart form field "file").
func (h *Handler) UploadLogo(c *gin.Context) {
	id, ok := orgID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	f, err := file.Open()
	if err != nil {
		response.BadRequest(c, "failed to read file")
		return
	}
	defer f.Close()

	org, err := h.svc.UploadLogo(c.Request.Context(), middleware.CurrentUser(c), id, Logo{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        f,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, org)
}
