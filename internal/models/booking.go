package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is a state in the booking lifecycle.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingRejected, BookingCompleted, BookingCancelled,
}

// ParseBookingStatus maps a query value to a status.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	for _, st := range BookingStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether no transition leaves s.
func (s BookingStatus) Terminal() bool {
	return s == BookingRejected || s == BookingCompleted || s == BookingCancelled
}

// DateLayout and TimeLayout are the wire formats for event_date and event_time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Booking links one organization to one venue slot (venue, date, time).
// EventDate carries the date at UTC midnight; EventTime is "HH:MM".
type Booking struct {
	ID               uuid.UUID     `json:"id"`
	VenueID          uuid.UUID     `json:"venue_id"`
	OrganizationID   uuid.UUID     `json:"organization_id"`
	EventName        string        `json:"event_name"`
	EventDate        time.Time     `json:"-"`
	EventTime        string        `json:"event_time"`
	GuestCount       int           `json:"guest_count"`
	SpecialRequests  *string       `json:"special_requests"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	VenueName        string        `json:"venue_name"`
	OrganizationName string        `json:"organization_name"`
}

// EventDateString returns event_date in its wire format.
func (b *Booking) EventDateString() string { return b.EventDate.Format(DateLayout) }

// BookingView is the JSON shape of a booking.
type BookingView struct {
	*Booking
	EventDate string `json:"event_date"`
}

// View returns the API representation of b.
func (b *Booking) View() BookingView {
	return BookingView{Booking: b, EventDate: b.EventDateString()}
}

// NewBooking holds the fields of a booking request.
type NewBooking struct {
	VenueID         uuid.UUID
	OrganizationID  uuid.UUID
	EventName       string
	EventDate       time.Time
	EventTime       string
	GuestCount      int
	SpecialRequests *string
}

// VenueStats summarizes a venue's bookings for the admin dashboard.
type VenueStats struct {
	BookingsThisMonth int `json:"bookings_this_month"`
	PendingCount      int `json:"pending_count"`
	RevenueCents      int `json:"revenue_cents"`
}
