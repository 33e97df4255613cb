package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

// RequireRole returns a middleware that allows only users holding role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(ContextUser)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		user, _ := v.(*models.User)
		if err := auth.Require(user, role); err != nil {
			response.AbortError(c, err)
			return
		}
		c.Next()
	}
}
