package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/models"
)

func TestRequire(t *testing.T) {
	org := &models.User{Role: models.RoleStudentOrg}
	venue := &models.User{Role: models.RoleVenueAdmin}

	assert.NoError(t, Require(org, models.RoleStudentOrg))
	assert.NoError(t, Require(venue, models.RoleVenueAdmin))
	assert.ErrorIs(t, Require(venue, models.RoleStudentOrg), apperr.ErrStudentOrgRequired)
	assert.ErrorIs(t, Require(org, models.RoleVenueAdmin), apperr.ErrVenueAdminRequired)
	assert.ErrorIs(t, Require(nil, models.RoleVenueAdmin), apperr.ErrVenueAdminRequired)
}
