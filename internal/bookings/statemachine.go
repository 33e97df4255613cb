package bookings

import "github.com/venuelink/backend/internal/models"

// Party is the side of a booking requesting a status change.
type Party string

const (
	PartyOrgOwner   Party = "org_owner"
	PartyVenueOwner Party = "venue_owner"
	PartySystem     Party = "system"
)

// Parties lists every party.
var Parties = []Party{PartyOrgOwner, PartyVenueOwner, PartySystem}

type edge struct {
	from, to models.BookingStatus
}

// transitions is the complete booking lifecycle. Any pair not listed is invalid.
var transitions = map[edge][]Party{
	{models.BookingPending, models.BookingConfirmed}:   {PartyVenueOwner},
	{models.BookingPending, models.BookingRejected}:    {PartyVenueOwner},
	{models.BookingPending, models.BookingCancelled}:   {PartyOrgOwner},
	{models.BookingConfirmed, models.BookingCompleted}: {PartySystem, PartyVenueOwner},
	{models.BookingConfirmed, models.BookingCancelled}: {PartyOrgOwner, PartyVenueOwner},
}

// CanTransition reports whether the lifecycle has an edge from -> to.
func CanTransition(from, to models.BookingStatus) bool {
	_, ok := transitions[edge{from, to}]
	return ok
}

// Allowed reports whether party may move a booking from -> to.
func Allowed(from, to models.BookingStatus, party Party) bool {
	for _, p := range transitions[edge{from, to}] {
		if p == party {
			return true
		}
	}
	return false
}
