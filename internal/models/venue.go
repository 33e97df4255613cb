package models

import (
	"time"

	"github.com/google/uuid"
)

// VenueType categorizes a venue listing.
type VenueType string

const (
	VenueTypeBar        VenueType = "bar"
	VenueTypeRestaurant VenueType = "restaurant"
	VenueTypeEventSpace VenueType = "event_space"
	VenueTypeCafe       VenueType = "cafe"
)

// Valid reports whether t is a known venue type.
func (t VenueType) Valid() bool {
	switch t {
	case VenueTypeBar, VenueTypeRestaurant, VenueTypeEventSpace, VenueTypeCafe:
		return true
	}
	return false
}

// Venue is a bookable location owned by a venue_admin user.
type Venue struct {
	ID             uuid.UUID  `json:"id"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	Name           string     `json:"name"`
	Type           VenueType  `json:"type"`
	Capacity       int        `json:"capacity"`
	BasePriceCents int        `json:"base_price_cents"`
	AddressStreet  *string    `json:"address_street"`
	AddressCity    *string    `json:"address_city"`
	AddressState   *string    `json:"address_state"`
	AddressZip     *string    `json:"address_zip"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the venue has been soft-deleted.
func (v *Venue) IsDeleted() bool { return v.DeletedAt != nil }

// VenueUpdate holds the fields of a partial venue update. Nil means unchanged.
type VenueUpdate struct {
	Name           *string    `json:"name"`
	Type           *VenueType `json:"type"`
	Capacity       *int       `json:"capacity"`
	BasePriceCents *int       `json:"base_price_cents"`
	AddressStreet  *string    `json:"address_street"`
	AddressCity    *string    `json:"address_city"`
	AddressState   *string    `json:"address_state"`
	AddressZip     *string    `json:"address_zip"`
}

// VenueFilter narrows venue discovery queries.
type VenueFilter struct {
	Type          *VenueType
	MinCapacity   *int
	MaxCapacity   *int
	MaxPriceCents *int
	Search        string
	Page          int
	PageSize      int
}
