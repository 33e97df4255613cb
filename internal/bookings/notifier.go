package bookings

import (
	"context"

	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/queue"
)

// Enqueuer accepts booking notification jobs.
type Enqueuer interface {
	EnqueueBookingStatus(ctx context.Context, payload queue.BookingStatusPayload) error
}

// QueueNotifier hands booking changes to the worker. Enqueue failures are
// logged and never fail the booking operation.
type QueueNotifier struct {
	queue  Enqueuer
	logger *zap.Logger
}

// NewQueueNotifier creates a notifier backed by q.
func NewQueueNotifier(q Enqueuer, logger *zap.Logger) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{queue: q, logger: logger}
}

// BookingChanged enqueues a notification job for b.
func (n *QueueNotifier) BookingChanged(ctx context.Context, b *models.Booking, from models.BookingStatus, party Party) {
	err := n.queue.EnqueueBookingStatus(ctx, queue.BookingStatusPayload{
		BookingID: b.ID,
		From:      string(from),
		To:        string(b.Status),
		Actor:     string(party),
	})
	if err != nil {
		n.logger.Warn("enqueue booking notification failed", zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}
