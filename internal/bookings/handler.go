package bookings

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuelink/backend/internal/middleware"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/internal/venues"
	"github.com/venuelink/backend/pkg/response"
)

// Handler handles booking HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a bookings handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// CreateBookingRequest is the body for POST /bookings.
type CreateBookingRequest struct {
	VenueID         uuid.UUID `json:"venue_id" binding:"required"`
	EventName       string    `json:"event_name" binding:"required,min=2,max=100"`
	EventDate       string    `json:"event_date" binding:"required,datetime=2006-01-02"`
	EventTime       string    `json:"event_time" binding:"required,datetime=15:04"`
	GuestCount      int       `json:"guest_count" binding:"required,min=1"`
	SpecialRequests *string   `json:"special_requests" binding:"omitempty,max=2000"`
}

// ListBookingsQuery holds paging query parameters for booking lists.
type ListBookingsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed rejected completed cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q ListBookingsQuery) filter() Filter {
	f := Filter{Page: q.Page, PageSize: q.PageSize}
	if st, ok := models.ParseBookingStatus(q.Status); ok {
		f.Status = &st
	}
	return f
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /bookings.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Unprocessable(c, "invalid request: "+err.Error())
		return
	}
	date, err := time.Parse(models.DateLayout, body.EventDate)
	if err != nil {
		response.Unprocessable(c, "event_date must be YYYY-MM-DD")
		return
	}
	b, err := h.svc.RequestBooking(c.Request.Context(), middleware.CurrentUser(c), Request{
		VenueID:         body.VenueID,
		EventName:       body.EventName,
		EventDate:       date,
		EventTime:       body.EventTime,
		GuestCount:      body.GuestCount,
		SpecialRequests: body.SpecialRequests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, b.View())
}

// ListMine handles GET /bookings/me.
func (h *Handler) ListMine(c *gin.Context) {
	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Unprocessable(c, "invalid query: "+err.Error())
		return
	}
	page, err := h.svc.ListMyBookings(c.Request.Context(), middleware.CurrentUser(c), q.filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

type action func(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error)

func (h *Handler) act(c *gin.Context, fn action) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := fn(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, b.View())
}

// Get handles GET /bookings/:id for either party to the booking.
func (h *Handler) Get(c *gin.Context) { h.act(c, h.svc.Participant) }

// Cancel handles PATCH /bookings/:id/cancel. Venue admins cancel as the venue
// owner; everyone else as the booking organization.
func (h *Handler) Cancel(c *gin.Context) {
	fn := h.svc.CancelBooking
	if middleware.CurrentUser(c).Role == models.RoleVenueAdmin {
		fn = h.svc.VenueCancelBooking
	}
	h.act(c, fn)
}

// Accept handles PATCH /bookings/:id/accept.
func (h *Handler) Accept(c *gin.Context) { h.act(c, h.svc.AcceptBooking) }

// Reject handles PATCH /bookings/:id/reject.
func (h *Handler) Reject(c *gin.Context) { h.act(c, h.svc.RejectBooking) }

// Complete handles PATCH /bookings/:id/complete.
func (h *Handler) Complete(c *gin.Context) { h.act(c, h.svc.CompleteBooking) }

// ListForVenue handles GET /venues/:id/bookings.
func (h *Handler) ListForVenue(c *gin.Context) {
	venueID, ok := venues.VenueID(c)
	if !ok {
		return
	}
	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Unprocessable(c, "invalid query: "+err.Error())
		return
	}
	page, err := h.svc.ListVenueBookings(c.Request.Context(), middleware.CurrentUser(c), venueID, q.filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

// VenueStats handles GET /venues/:id/stats.
func (h *Handler) VenueStats(c *gin.Context) {
	venueID, ok := venues.VenueID(c)
	if !ok {
		return
	}
	stats, err := h.svc.VenueStats(c.Request.Context(), middleware.CurrentUser(c), venueID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
