package users

import (
	"github.com/gin-gonic/gin"

	"github.com/venuelink/backend/internal/middleware"
	"github.com/venuelink/backend/pkg/response"
)

// Handler handles user HTTP endpoints.
type Handler struct{}

// NewHandler creates a users handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Me handles GET /auth/me. The authenticate middleware has already synced the caller.
func (h *Handler) Me(c *gin.Context) {
	response.OK(c, middleware.CurrentUser(c))
}
