// Package apperr defines the business error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindAuth Kind = iota + 1
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	}
	return "unknown"
}

// Code is a stable machine-readable reason.
type Code string

const (
	CodeInvalidToken         Code = "invalid_token"
	CodeInvalidHeader        Code = "invalid_header"
	CodeEmailRequired        Code = "email_required"
	CodeInvalidEmail         Code = "invalid_email"
	CodeInvalidRole          Code = "invalid_role"
	CodeStudentEmailRequired Code = "student_email_required"
	CodeStudentOrgRequired   Code = "student_org_required"
	CodeVenueAdminRequired   Code = "venue_admin_required"

	CodeBookingNotFound   Code = "booking_not_found"
	CodeNoOrganization    Code = "no_organization"
	CodeNotOrgOwner       Code = "not_org_owner"
	CodeNotVenueOwner     Code = "not_venue_owner"
	CodeNotAllowed        Code = "transition_not_allowed"
	CodeCannotCancel      Code = "cannot_cancel"
	CodeInvalidTransition Code = "invalid_transition"
	CodeSlotTaken         Code = "slot_taken"
	CodeInvalidGuestCount Code = "invalid_guest_count"
	CodeExceedsCapacity   Code = "exceeds_capacity"
	CodeEventInPast       Code = "event_in_past"
	CodeInvalidField      Code = "invalid_field"
	CodeNotBookingParty   Code = "not_booking_party"

	CodeOrganizationNotFound Code = "organization_not_found"
	CodeOrganizationExists   Code = "organization_exists"

	CodeVenueNotFound Code = "venue_not_found"
	CodeVenueDeleted  Code = "venue_deleted"
)

// Error is a business rule outcome. It is surfaced to callers untouched.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *Error with the same Kind and Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New builds an Error.
func New(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Auth(code Code, msg string) *Error { return New(KindAuth, code, msg) }
func Validation(code Code, msg string) *Error { return New(KindValidation, code, msg) }
func NotFound(code Code, msg string) *Error { return New(KindNotFound, code, msg) }
func Forbidden(code Code, msg string) *Error { return New(KindForbidden, code, msg) }
func Conflict(code Code, msg string) *Error { return New(KindConflict, code, msg) }
func InvalidState(code Code, msg string) *Error { return New(KindInvalidState, code, msg) }

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or 0 for non-business errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return 0
}

// CodeOf returns the Code of err, or "" for non-business errors.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return ""
}

// Canonical errors with fixed messages.
var (
	ErrInvalidToken         = Auth(CodeInvalidToken, "Invalid authentication token.")
	ErrInvalidHeader        = Auth(CodeInvalidHeader, "Invalid authentication header.")
	ErrEmailRequired        = Auth(CodeEmailRequired, "Email is required in token claims.")
	ErrInvalidEmail         = Validation(CodeInvalidEmail, "Email address is not valid.")
	ErrInvalidRole          = Validation(CodeInvalidRole, "Invalid user role.")
	ErrStudentEmailRequired = Validation(CodeStudentEmailRequired, "Student organizations must use a .edu email address.")
	ErrStudentOrgRequired   = Forbidden(CodeStudentOrgRequired, "Only student organization accounts can do this.")
	ErrVenueAdminRequired   = Forbidden(CodeVenueAdminRequired, "Only venue admin accounts can do this.")

	ErrBookingNotFound      = NotFound(CodeBookingNotFound, "Booking not found.")
	ErrNoOrganization       = Forbidden(CodeNoOrganization, "You do not have an organization.")
	ErrNotOrgOwner          = Forbidden(CodeNotOrgOwner, "You do not own the organization for this booking.")
	ErrNotVenueOwner        = Forbidden(CodeNotVenueOwner, "You do not own this venue.")
	ErrTransitionNotAllowed = Forbidden(CodeNotAllowed, "You are not allowed to make this status change.")
	ErrCannotCancel         = InvalidState(CodeCannotCancel, "Only pending or confirmed bookings can be cancelled.")
	ErrInvalidTransition    = InvalidState(CodeInvalidTransition, "This status change is not allowed from the booking's current status.")
	ErrSlotTaken            = Conflict(CodeSlotTaken, "This venue is already booked for that date and time.")
	ErrInvalidGuestCount    = Validation(CodeInvalidGuestCount, "Guest count must be at least 1.")
	ErrExceedsCapacity      = Validation(CodeExceedsCapacity, "Guest count exceeds the venue capacity.")
	ErrEventInPast          = Validation(CodeEventInPast, "Event date must not be in the past.")
	ErrNotBookingParty      = Forbidden(CodeNotBookingParty, "You are not a party to this booking.")

	ErrOrganizationNotFound = NotFound(CodeOrganizationNotFound, "Organization not found.")
	ErrOrganizationMissing  = NotFound(CodeNoOrganization, "You do not have an organization yet.")
	ErrOrganizationExists   = Conflict(CodeOrganizationExists, "You already have an organization.")

	ErrVenueNotFound = NotFound(CodeVenueNotFound, "Venue not found.")
	ErrVenueDeleted  = InvalidState(CodeVenueDeleted, "Venue has been deleted.")
)

// Field reports a field constraint violation.
func Field(msg string) *Error {
	return Validation(CodeInvalidField, msg)
}
