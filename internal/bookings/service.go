package bookings

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

// Field bounds for booking requests.
const (
	MinEventNameLength       = 2
	MaxEventNameLength       = 100
	MaxSpecialRequestsLength = 2000
)

// Organizations resolves the organization a user owns.
type Organizations interface {
	OwnedBy(ctx context.Context, userID uuid.UUID) (*models.Organization, error)
}

// Venues resolves venues for booking requests and venue-side actions.
type Venues interface {
	// Get returns an active venue or apperr.ErrVenueNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	// Owned returns a venue the user owns, deleted or not.
	Owned(ctx context.Context, user *models.User, id uuid.UUID) (*models.Venue, error)
}

// Service orchestrates authorization and the ledger for booking operations.
type Service struct {
	ledger *Ledger
	orgs   Organizations
	venues Venues
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates a bookings service.
func NewService(ledger *Ledger, orgs Organizations, venues Venues, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: ledger, orgs: orgs, venues: venues, now: time.Now, logger: logger}
}

// Request is an organization's booking request.
type Request struct {
	VenueID         uuid.UUID
	EventName       string
	EventDate       time.Time
	EventTime       string
	GuestCount      int
	SpecialRequests *string
}

// RequestBooking books a venue slot for the caller's organization.
func (s *Service) RequestBooking(ctx context.Context, user *models.User, req Request) (*models.Booking, error) {
	if err := auth.Require(user, models.RoleStudentOrg); err != nil {
		return nil, err
	}
	org, err := s.orgs.OwnedBy(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.ErrNoOrganization
	}
	venue, err := s.venues.Get(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.EventName)
	if n := utf8.RuneCountInString(name); n < MinEventNameLength || n > MaxEventNameLength {
		return nil, apperr.Field("Event name must be between 2 and 100 characters.")
	}
	if req.SpecialRequests != nil && utf8.RuneCountInString(*req.SpecialRequests) > MaxSpecialRequestsLength {
		return nil, apperr.Field("Special requests must be at most 2000 characters.")
	}
	if _, err := time.Parse(models.TimeLayout, req.EventTime); err != nil {
		return nil, apperr.Field("Event time must be in HH:MM format.")
	}
	if req.GuestCount < 1 {
		return nil, apperr.ErrInvalidGuestCount
	}
	if req.GuestCount > venue.Capacity {
		return nil, apperr.ErrExceedsCapacity
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date := time.Date(req.EventDate.Year(), req.EventDate.Month(), req.EventDate.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, apperr.ErrEventInPast
	}

	return s.ledger.CreateBooking(ctx, models.NewBooking{
		VenueID:         venue.ID,
		OrganizationID:  org.ID,
		EventName:       name,
		EventDate:       date,
		EventTime:       req.EventTime,
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
	})
}

// CancelBooking cancels a booking on behalf of the organization that made it.
// Checks run in a fixed order: existence, organization ownership, status.
func (s *Service) CancelBooking(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error) {
	b, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	org, err := s.orgs.OwnedBy(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.ErrNoOrganization
	}
	if org.ID != b.OrganizationID {
		return nil, apperr.ErrNotOrgOwner
	}
	if b.Status.Terminal() {
		return nil, apperr.ErrCannotCancel
	}
	return s.ledger.Transition(ctx, id, models.BookingCancelled, PartyOrgOwner)
}

// ListMyBookings returns the caller's organization's bookings.
func (s *Service) ListMyBookings(ctx context.Context, user *models.User, f Filter) (response.Page[models.BookingView], error) {
	if err := auth.Require(user, models.RoleStudentOrg); err != nil {
		return response.Page[models.BookingView]{}, err
	}
	org, err := s.orgs.OwnedBy(ctx, user.ID)
	if err != nil {
		return response.Page[models.BookingView]{}, err
	}
	if org == nil {
		return response.Page[models.BookingView]{}, apperr.ErrOrganizationMissing
	}
	return s.ledger.ListByOrganization(ctx, org.ID, f)
}

// AcceptBooking confirms a pending booking at the caller's venue.
func (s *Service) AcceptBooking(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error) {
	return s.venueTransition(ctx, user, id, models.BookingConfirmed)
}

// RejectBooking rejects a pending booking at the caller's venue.
func (s *Service) RejectBooking(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error) {
	return s.venueTransition(ctx, user, id, models.BookingRejected)
}

// CompleteBooking marks a confirmed booking at the caller's venue as completed.
func (s *Service) CompleteBooking(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error) {
	return s.venueTransition(ctx, user, id, models.BookingCompleted)
}

// VenueCancelBooking cancels a confirmed booking at the caller's venue.
func (s *Service) VenueCancelBooking(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error) {
	return s.venueTransition(ctx, user, id, models.BookingCancelled)
}

func (s *Service) venueTransition(ctx context.Context, user *models.User, id uuid.UUID, target models.BookingStatus) (*models.Booking, error) {
	b, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.venues.Owned(ctx, user, b.VenueID); err != nil {
		return nil, err
	}
	return s.ledger.Transition(ctx, id, target, PartyVenueOwner)
}

// ListVenueBookings returns bookings at a venue the caller owns.
func (s *Service) ListVenueBookings(ctx context.Context, user *models.User, venueID uuid.UUID, f Filter) (response.Page[models.BookingView], error) {
	if _, err := s.venues.Owned(ctx, user, venueID); err != nil {
		return response.Page[models.BookingView]{}, err
	}
	return s.ledger.ListByVenue(ctx, venueID, f)
}

// VenueStats summarizes the current month at a venue the caller owns.
func (s *Service) VenueStats(ctx context.Context, user *models.User, venueID uuid.UUID) (models.VenueStats, error) {
	if _, err := s.venues.Owned(ctx, user, venueID); err != nil {
		return models.VenueStats{}, err
	}
	return s.ledger.VenueStats(ctx, venueID, s.now().UTC())
}

// Participant returns a booking the caller takes part in, either as owner of
// the requesting organization or as owner of the venue.
func (s *Service) Participant(ctx context.Context, user *models.User, id uuid.UUID) (*models.Booking, error) {
	b, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch user.Role {
	case models.RoleStudentOrg:
		org, err := s.orgs.OwnedBy(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if org != nil && org.ID == b.OrganizationID {
			return b, nil
		}
	case models.RoleVenueAdmin:
		_, err := s.venues.Owned(ctx, user, b.VenueID)
		if err == nil {
			return b, nil
		}
		if apperr.KindOf(err) == 0 {
			return nil, err
		}
	}
	return nil, apperr.ErrNotBookingParty
}
