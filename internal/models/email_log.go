package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailLogStatus for delivery.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records one booking notification delivery attempt.
type EmailLog struct {
	ID             uuid.UUID     `json:"id"`
	BookingID      uuid.UUID     `json:"booking_id"`
	BookingStatus  BookingStatus `json:"booking_status"`
	RecipientEmail string        `json:"recipient_email"`
	Subject        string        `json:"subject,omitempty"`
	Status         string        `json:"status"`
	SentAt         *time.Time    `json:"sent_at,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
