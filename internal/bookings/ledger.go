// Package bookings implements the availability ledger and the booking workflow.
package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

// maxTransitionAttempts bounds compare-and-set retries. The lifecycle is
// acyclic, so a booking can lose only a few races in a row.
const maxTransitionAttempts = 4

// Store is the booking persistence the ledger needs.
type Store interface {
	// Insert creates a pending booking. A taken slot yields apperr.ErrSlotTaken.
	Insert(ctx context.Context, nb models.NewBooking) (*models.Booking, error)
	// Get returns a booking, or nil.
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	// SetStatus moves id from -> to in one statement. It returns nil when the
	// booking is no longer in status from.
	SetStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) (*models.Booking, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, f Filter) ([]models.Booking, int, error)
	ListByVenue(ctx context.Context, venueID uuid.UUID, f Filter) ([]models.Booking, int, error)
	// Stats summarizes a venue for event dates in [from, to).
	Stats(ctx context.Context, venueID uuid.UUID, from, to time.Time) (models.VenueStats, error)
	// Elapsed returns up to limit confirmed bookings whose event date is before day.
	Elapsed(ctx context.Context, day time.Time, limit int) ([]uuid.UUID, error)
}

// Notifier is told about every booking that is created or changes status.
type Notifier interface {
	BookingChanged(ctx context.Context, b *models.Booking, from models.BookingStatus, party Party)
}

// Filter selects a page of bookings.
type Filter struct {
	Status   *models.BookingStatus
	Page     int
	PageSize int
}

// Normalize clamps paging to the supported range.
func (f Filter) Normalize() Filter {
	if f.Page < response.MinPage {
		f.Page = response.MinPage
	}
	if f.PageSize < 1 || f.PageSize > response.MaxPageSize {
		f.PageSize = response.DefaultPageSize
	}
	return f
}

// Ledger owns booking records and their lifecycle.
type Ledger struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

// NewLedger creates a ledger. notifier may be nil.
func NewLedger(store Store, notifier Notifier, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, notifier: notifier, logger: logger}
}

// CreateBooking records a pending booking. The store's uniqueness constraint
// on (venue, date, time) decides concurrent requests for the same slot.
func (l *Ledger) CreateBooking(ctx context.Context, nb models.NewBooking) (*models.Booking, error) {
	if nb.GuestCount <= 0 {
		return nil, apperr.ErrInvalidGuestCount
	}
	b, err := l.store.Insert(ctx, nb)
	if err != nil {
		return nil, err
	}
	l.logger.Info("booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("venue_id", b.VenueID.String()),
		zap.String("event_date", b.EventDateString()),
		zap.String("event_time", b.EventTime),
	)
	l.notify(ctx, b, "", PartyOrgOwner)
	return b, nil
}

// Get returns a booking or ErrBookingNotFound.
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.ErrBookingNotFound
	}
	return b, nil
}

// Transition moves a booking to target on behalf of party. If the status
// changes concurrently, the checks are repeated against the fresh state.
func (l *Ledger) Transition(ctx context.Context, id uuid.UUID, target models.BookingStatus, party Party) (*models.Booking, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		b, err := l.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !CanTransition(b.Status, target) {
			return nil, apperr.ErrInvalidTransition
		}
		if !Allowed(b.Status, target, party) {
			return nil, apperr.ErrTransitionNotAllowed
		}
		updated, err := l.store.SetStatus(ctx, id, b.Status, target)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			l.logger.Debug("booking status changed concurrently",
				zap.String("booking_id", id.String()), zap.String("expected", string(b.Status)))
			continue
		}
		l.logger.Info("booking status changed",
			zap.String("booking_id", id.String()),
			zap.String("from", string(b.Status)),
			zap.String("to", string(target)),
			zap.String("party", string(party)),
		)
		l.notify(ctx, updated, b.Status, party)
		return updated, nil
	}
	return nil, fmt.Errorf("booking %s: status kept changing", id)
}

// ListByOrganization returns an organization's bookings, newest first.
func (l *Ledger) ListByOrganization(ctx context.Context, orgID uuid.UUID, f Filter) (response.Page[models.BookingView], error) {
	f = f.Normalize()
	items, total, err := l.store.ListByOrganization(ctx, orgID, f)
	if err != nil {
		return response.Page[models.BookingView]{}, err
	}
	return response.NewPage(views(items), total, f.Page, f.PageSize), nil
}

// ListByVenue returns a venue's bookings, newest first.
func (l *Ledger) ListByVenue(ctx context.Context, venueID uuid.UUID, f Filter) (response.Page[models.BookingView], error) {
	f = f.Normalize()
	items, total, err := l.store.ListByVenue(ctx, venueID, f)
	if err != nil {
		return response.Page[models.BookingView]{}, err
	}
	return response.NewPage(views(items), total, f.Page, f.PageSize), nil
}

// VenueStats summarizes the calendar month containing now.
func (l *Ledger) VenueStats(ctx context.Context, venueID uuid.UUID, now time.Time) (models.VenueStats, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return l.store.Stats(ctx, venueID, start, start.AddDate(0, 1, 0))
}

// CompleteElapsed marks confirmed bookings whose event date has passed as
// completed. It returns how many were completed.
func (l *Ledger) CompleteElapsed(ctx context.Context, now time.Time, batch int) (int, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	ids, err := l.store.Elapsed(ctx, today, batch)
	if err != nil {
		return 0, err
	}
	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := l.Transition(ctx, id, models.BookingCompleted, PartySystem); err != nil {
			if apperr.KindOf(err) != 0 {
				// Cancelled or completed by someone else since the scan.
				continue
			}
			return done, err
		}
		done++
	}
	return done, nil
}

func (l *Ledger) notify(ctx context.Context, b *models.Booking, from models.BookingStatus, party Party) {
	if l.notifier != nil {
		l.notifier.BookingChanged(ctx, b, from, party)
	}
}

func views(items []models.Booking) []models.BookingView {
	out := make([]models.BookingView, len(items))
	for i := range items {
		out[i] = items[i].View()
	}
	return out
}
