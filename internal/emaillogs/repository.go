package emaillogs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuelink/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts a delivery attempt and fills its id and created_at.
func (r *Repository) Record(ctx context.Context, el *models.EmailLog) error {
	const q = `INSERT INTO email_logs (booking_id, booking_status, recipient_email, subject, status, sent_at, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''))
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, el.BookingID, el.BookingStatus, el.RecipientEmail, el.Subject, el.Status, el.SentAt, el.ErrorMessage).
		Scan(&el.ID, &el.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}
	return nil
}

// ListByBooking returns delivery attempts for a booking, newest first.
func (r *Repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*models.EmailLog, error) {
	const q = `SELECT id, booking_id, booking_status, recipient_email, subject, status, sent_at, error_message, created_at
		FROM email_logs
		WHERE booking_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()
	var list []*models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		var subject, errMsg *string
		if err := rows.Scan(&el.ID, &el.BookingID, &el.BookingStatus, &el.RecipientEmail, &subject, &el.Status, &el.SentAt, &errMsg, &el.CreatedAt); err != nil {
			return nil, err
		}
		if subject != nil {
			el.Subject = *subject
		}
		if errMsg != nil {
			el.ErrorMessage = *errMsg
		}
		list = append(list, &el)
	}
	return list, rows.Err()
}
