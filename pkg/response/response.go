package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venuelink/backend/internal/apperr"
)

// Body is the standard API response envelope.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Error: err})
}

// Unauthorized sends 401.
func Unauthorized(c *gin.Context, err string) {
	c.JSON(http.StatusUnauthorized, Body{Success: false, Error: err})
}

// Forbidden sends 403.
func Forbidden(c *gin.Context, err string) {
	c.JSON(http.StatusForbidden, Body{Success: false, Error: err})
}

// NotFound sends 404.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Body{Success: false, Error: err})
}

// Unprocessable sends 422 for request bodies that fail binding.
func Unprocessable(c *gin.Context, err string) {
	c.JSON(http.StatusUnprocessableEntity, Body{Success: false, Error: err})
}

// Internal sends 500.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Body{Success: false, Error: err})
}

// Status returns the HTTP status for a business error kind.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindValidation, apperr.KindInvalidState:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err. Business errors keep their message and code; anything else
// becomes a generic 500 and is attached to the gin context for the request logger.
func Error(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		c.JSON(Status(e.Kind), Body{Success: false, Error: e.Message, Code: string(e.Code)})
		return
	}
	_ = c.Error(err)
	Internal(c, "internal server error")
}

// AbortError writes err and stops the handler chain.
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
