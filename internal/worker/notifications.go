// Package worker runs background jobs: booking notification emails and the
// sweep that completes confirmed bookings whose event date has passed.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/bookings"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/mailer"
	"github.com/venuelink/backend/pkg/queue"
)

// DequeueTimeout bounds one blocking pop so cancellation is noticed.
const DequeueTimeout = 5 * time.Second

// BookingSource loads the booking and the addresses of both parties.
type BookingSource interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Contacts(ctx context.Context, id uuid.UUID) (bookings.Contacts, error)
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// DeliveryLog records delivery attempts.
type DeliveryLog interface {
	Record(ctx context.Context, el *models.EmailLog) error
}

// JobSource is the notification queue.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// NotificationProcessor turns booking status jobs into emails to the parties involved.
type NotificationProcessor struct {
	bookings BookingSource
	sender   Sender
	log      DeliveryLog
	queue    JobSource
	logger   *zap.Logger

	pollTimeout time.Duration
	backoff     time.Duration
}

// NewNotificationProcessor creates a notification processor. log may be nil.
func NewNotificationProcessor(src BookingSource, sender Sender, log DeliveryLog, q JobSource, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{
		bookings:    src,
		sender:      sender,
		log:         log,
		queue:       q,
		logger:      logger,
		pollTimeout: DequeueTimeout,
		backoff:     queue.RetryBackoff,
	}
}

type party int

const (
	partyOrganization party = iota
	partyVenue
)

// recipients lists who hears about a change to status to, made by actor.
func recipients(p queue.BookingStatusPayload) []party {
	switch models.BookingStatus(p.To) {
	case models.BookingPending:
		return []party{partyVenue, partyOrganization}
	case models.BookingConfirmed, models.BookingRejected:
		return []party{partyOrganization}
	case models.BookingCancelled:
		if p.Actor == string(bookings.PartyOrgOwner) {
			return []party{partyVenue}
		}
		return []party{partyOrganization}
	case models.BookingCompleted:
		return []party{partyOrganization, partyVenue}
	}
	return nil
}

func compose(b *models.Booking, to party) (subject, text string) {
	when := fmt.Sprintf("%s at %s", b.EventDateString(), b.EventTime)
	switch b.Status {
	case models.BookingPending:
		if to == partyVenue {
			subject = "New booking request: " + b.EventName
			text = fmt.Sprintf("%s requested %s for %q on %s with %d guests. Review it in your dashboard.",
				b.OrganizationName, b.VenueName, b.EventName, when, b.GuestCount)
			return subject, text
		}
		subject = "Booking request sent: " + b.EventName
	case models.BookingConfirmed:
		subject = "Booking confirmed: " + b.EventName
	case models.BookingRejected:
		subject = "Booking declined: " + b.EventName
	case models.BookingCancelled:
		subject = "Booking cancelled: " + b.EventName
	case models.BookingCompleted:
		subject = "Booking completed: " + b.EventName
	default:
		subject = "Booking update: " + b.EventName
	}
	text = fmt.Sprintf("Your booking of %s for %q on %s (%d guests, %s) is now %s.",
		b.VenueName, b.EventName, when, b.GuestCount, b.OrganizationName, b.Status)
	return subject, text
}

// Process sends the emails for one job. A booking that no longer exists is skipped.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	payload, err := queue.DecodeBookingStatus(job)
	if err != nil {
		return err
	}
	b, err := p.bookings.Get(ctx, payload.BookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if b == nil {
		p.logger.Warn("booking for notification not found", zap.String("booking_id", payload.BookingID.String()))
		return nil
	}
	contacts, err := p.bookings.Contacts(ctx, b.ID)
	if err != nil {
		return err
	}
	// The job describes the change; the booking may have moved on since.
	b.Status = models.BookingStatus(payload.To)

	var errs []error
	for _, to := range recipients(payload) {
		addr := contacts.OrganizationEmail
		if to == partyVenue {
			addr = contacts.VenueEmail
		}
		subject, text := compose(b, to)
		sendErr := p.sender.Send(ctx, mailer.Message{To: addr, Subject: subject, Text: text})
		p.record(ctx, b, addr, subject, sendErr)
		if sendErr != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", addr, sendErr))
		}
	}
	return errors.Join(errs...)
}

func (p *NotificationProcessor) record(ctx context.Context, b *models.Booking, addr, subject string, sendErr error) {
	if p.log == nil {
		return
	}
	el := &models.EmailLog{
		BookingID:      b.ID,
		BookingStatus:  b.Status,
		RecipientEmail: addr,
		Subject:        subject,
		Status:         models.EmailLogStatusSent,
	}
	if sendErr != nil {
		el.Status = models.EmailLogStatusFailed
		el.ErrorMessage = sendErr.Error()
	} else {
		now := time.Now()
		el.SentAt = &now
	}
	if err := p.log.Record(ctx, el); err != nil {
		p.logger.Warn("record email log failed", zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *NotificationProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
