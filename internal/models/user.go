package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the account class of a user.
type Role string

const (
	// RoleStudentOrg administers a student organization (requires a .edu email).
	RoleStudentOrg Role = "student_org"
	// RoleVenueAdmin owns and manages venue listings.
	RoleVenueAdmin Role = "venue_admin"
)

// ParseRole maps a role claim to a Role. ok is false for unknown values.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudentOrg, RoleVenueAdmin:
		return Role(s), true
	}
	return "", false
}

// User is a local account synced from the identity provider.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
