package auth

import (
	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/models"
)

// Require returns nil when user holds role, otherwise the matching Forbidden error.
func Require(user *models.User, role models.Role) error {
	if user != nil && user.Role == role {
		return nil
	}
	switch role {
	case models.RoleStudentOrg:
		return apperr.ErrStudentOrgRequired
	case models.RoleVenueAdmin:
		return apperr.ErrVenueAdminRequired
	}
	return apperr.Forbidden(apperr.CodeInvalidRole, "insufficient permissions")
}
