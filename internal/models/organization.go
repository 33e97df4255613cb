package models

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationType classifies a student organization.
type OrganizationType string

const (
	OrgTypeFraternity OrganizationType = "fraternity"
	OrgTypeSorority   OrganizationType = "sorority"
	OrgTypeClub       OrganizationType = "club"
	OrgTypeOther      OrganizationType = "other"
)

// Valid reports whether t is a known organization type.
func (t OrganizationType) Valid() bool {
	switch t {
	case OrgTypeFraternity, OrgTypeSorority, OrgTypeClub, OrgTypeOther:
		return true
	}
	return false
}

// Organization is a student group that books venues. Owned by one student_org user.
type Organization struct {
	ID           uuid.UUID        `json:"id"`
	OwnerID      uuid.UUID        `json:"owner_id"`
	Name         string           `json:"name"`
	Type         OrganizationType `json:"type"`
	University   string           `json:"university"`
	Description  *string          `json:"description"`
	ContactEmail *string          `json:"contact_email"`
	ContactPhone *string          `json:"contact_phone"`
	MemberCount  *int             `json:"member_count"`
	WebsiteURL   *string          `json:"website_url"`
	LogoURL      *string          `json:"logo_url"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// OrganizationUpdate holds the fields of a partial profile update. Nil means unchanged.
type OrganizationUpdate struct {
	Name         *string           `json:"name"`
	Type         *OrganizationType `json:"type"`
	University   *string           `json:"university"`
	Description  *string           `json:"description"`
	ContactEmail *string           `json:"contact_email"`
	ContactPhone *string           `json:"contact_phone"`
	MemberCount  *int              `json:"member_count"`
	WebsiteURL   *string           `json:"website_url"`
}
