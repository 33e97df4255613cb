package emaillogs

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuelink/backend/internal/middleware"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

// Lister reads delivery attempts for a booking.
type Lister interface {
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.EmailLog, error)
}

// Access resolves a booking the user takes part in, or a business error.
type Access interface {
	Participant(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error)
}

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo   Lister
	access Access
}

// NewHandler creates an email logs handler.
func NewHandler(repo Lister, access Access) *Handler {
	return &Handler{repo: repo, access: access}
}

// ListByBooking handles GET /bookings/:id/emails. Only the organization owner
// and the venue owner of the booking can read its notification history.
func (h *Handler) ListByBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.access.Participant(ctx, middleware.CurrentUser(c), bookingID); err != nil {
		response.Error(c, err)
		return
	}
	logs, err := h.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []*models.EmailLog{}
	}
	response.OK(c, logs)
}
