package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

const (
	// ContextUser is the key for the synced *models.User in gin context.
	ContextUser = "user"
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for user role in gin context.
	ContextUserRole = "user_role"
)

// UserSyncer resolves a verified identity to a local user.
type UserSyncer interface {
	Sync(ctx context.Context, id auth.Identity) (*models.User, error)
}

// Authenticate verifies the bearer token, syncs the caller into the user
// directory and stores the user in context.
func Authenticate(verifier auth.Verifier, users UserSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ParseBearer(c.GetHeader("Authorization"))
		if err != nil {
			response.AbortError(c, err)
			return
		}
		identity, err := verifier.Verify(token)
		if err != nil {
			response.AbortError(c, err)
			return
		}
		user, err := users.Sync(c.Request.Context(), identity)
		if err != nil {
			response.AbortError(c, err)
			return
		}
		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, string(user.Role))
		c.Next()
	}
}

// CurrentUser returns the authenticated user. Only valid behind Authenticate.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(ContextUser).(*models.User)
}
