package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/venuelink/backend/pkg/response"
)

// TokenMinter issues bearer tokens.
type TokenMinter interface {
	Generate(subject, email, role string) (string, error)
}

// DevTokenRequest is the body for POST /dev/token.
type DevTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=student_org venue_admin"`
}

// DevTokenHandler mints HS256 tokens so the API can be exercised without the
// identity provider. Mount it only in development.
func DevTokenHandler(minter TokenMinter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body DevTokenRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Unprocessable(c, "invalid request: "+err.Error())
			return
		}
		token, err := minter.Generate("dev|"+body.Email, body.Email, body.Role)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"token": token})
	}
}
