package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/database"
	"github.com/venuelink/backend/pkg/response"
)

const (
	slotConstraint       = "unique_venue_datetime_booking"
	guestCountConstraint = "booking_guest_count_positive_check"
)

// bookingSelect reads a booking with the display names of both parties.
const bookingSelect = `SELECT b.id, b.venue_id, b.organization_id, b.event_name, b.event_date,
	to_char(b.event_time, 'HH24:MI'), b.guest_count, b.special_requests, b.status,
	b.created_at, b.updated_at, v.name, o.name
	FROM bookings b
	JOIN venues v ON v.id = b.venue_id
	JOIN organizations o ON o.id = b.organization_id`

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a bookings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	var status string
	err := row.Scan(&b.ID, &b.VenueID, &b.OrganizationID, &b.EventName, &b.EventDate,
		&b.EventTime, &b.GuestCount, &b.SpecialRequests, &status,
		&b.CreatedAt, &b.UpdatedAt, &b.VenueName, &b.OrganizationName)
	if err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)
	return &b, nil
}

// Insert creates a pending booking.
func (r *Repository) Insert(ctx context.Context, nb models.NewBooking) (*models.Booking, error) {
	const q = `INSERT INTO bookings (venue_id, organization_id, event_name, event_date, event_time,
		guest_count, special_requests, status)
		VALUES ($1, $2, $3, $4, $5::time, $6, $7, 'pending')
		RETURNING id`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, q, nb.VenueID, nb.OrganizationID, nb.EventName, nb.EventDate,
		nb.EventTime, nb.GuestCount, nb.SpecialRequests).Scan(&id)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, slotConstraint):
			return nil, apperr.ErrSlotTaken
		case database.IsCheckViolation(err, guestCountConstraint):
			return nil, apperr.ErrInvalidGuestCount
		case database.IsForeignKeyViolation(err):
			return nil, apperr.ErrVenueNotFound
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	b, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("booking %s missing after insert", id)
	}
	return b, nil
}

// Get returns a booking by ID, or nil.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// SetStatus moves a booking from -> to if it is still in status from.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) (*models.Booking, error) {
	const q = `UPDATE bookings SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2`
	tag, err := r.pool.Exec(ctx, q, id, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("set booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

func (r *Repository) list(ctx context.Context, column string, id uuid.UUID, f Filter) ([]models.Booking, int, error) {
	where := []string{"b." + column + " = $1"}
	args := []interface{}{id}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("b.status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings b WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	q := fmt.Sprintf(`%s WHERE %s ORDER BY b.created_at DESC, b.id LIMIT $%d OFFSET $%d`,
		bookingSelect, cond, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, q, append(args, f.PageSize, response.Offset(f.Page, f.PageSize))...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	var list []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		list = append(list, *b)
	}
	return list, total, rows.Err()
}

// ListByOrganization returns one page of an organization's bookings.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID, f Filter) ([]models.Booking, int, error) {
	return r.list(ctx, "organization_id", orgID, f)
}

// ListByVenue returns one page of a venue's bookings.
func (r *Repository) ListByVenue(ctx context.Context, venueID uuid.UUID, f Filter) ([]models.Booking, int, error) {
	return r.list(ctx, "venue_id", venueID, f)
}

// Stats summarizes a venue's bookings with event dates in [from, to).
// Revenue counts confirmed and completed bookings at the venue's base price.
func (r *Repository) Stats(ctx context.Context, venueID uuid.UUID, from, to time.Time) (models.VenueStats, error) {
	const q = `SELECT
		COUNT(*) FILTER (WHERE b.event_date >= $2 AND b.event_date < $3
			AND b.status IN ('pending', 'confirmed', 'completed')),
		COUNT(*) FILTER (WHERE b.status = 'pending'),
		COALESCE(SUM(v.base_price_cents) FILTER (WHERE b.event_date >= $2 AND b.event_date < $3
			AND b.status IN ('confirmed', 'completed')), 0)
		FROM bookings b
		JOIN venues v ON v.id = b.venue_id
		WHERE b.venue_id = $1`
	var s models.VenueStats
	var revenue int64
	if err := r.pool.QueryRow(ctx, q, venueID, from, to).Scan(&s.BookingsThisMonth, &s.PendingCount, &revenue); err != nil {
		return s, fmt.Errorf("venue stats: %w", err)
	}
	s.RevenueCents = int(revenue)
	return s, nil
}

// Elapsed returns confirmed bookings whose event date is before day, oldest first.
func (r *Repository) Elapsed(ctx context.Context, day time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM bookings
		WHERE status = 'confirmed' AND event_date < $1
		ORDER BY event_date, event_time LIMIT $2`, day, limit)
	if err != nil {
		return nil, fmt.Errorf("elapsed bookings: %w", err)
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Contacts returns the owner emails of both parties to a booking, for notifications.
func (r *Repository) Contacts(ctx context.Context, id uuid.UUID) (Contacts, error) {
	const q = `SELECT ou.email, vu.email
		FROM bookings b
		JOIN organizations o ON o.id = b.organization_id
		JOIN users ou ON ou.id = o.owner_id
		JOIN venues v ON v.id = b.venue_id
		JOIN users vu ON vu.id = v.owner_id
		WHERE b.id = $1`
	var c Contacts
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.OrganizationEmail, &c.VenueEmail); err != nil {
		return c, fmt.Errorf("booking contacts: %w", err)
	}
	return c, nil
}

// Contacts are the addresses notified about a booking.
type Contacts struct {
	OrganizationEmail string
	VenueEmail        string
}
