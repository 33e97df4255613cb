package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelink/backend/internal/apperr"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(45, 20))
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 100, TotalPages(100, 1))
}

func TestNewPageNormalizesNilItems(t *testing.T) {
	p := NewPage[int](nil, 0, 1, 20)
	require.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
	assert.Equal(t, 0, Offset(0, 20))
}

func TestErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{apperr.ErrInvalidToken, http.StatusUnauthorized},
		{apperr.ErrStudentEmailRequired, http.StatusBadRequest},
		{apperr.ErrBookingNotFound, http.StatusNotFound},
		{apperr.ErrNoOrganization, http.StatusForbidden},
		{apperr.ErrSlotTaken, http.StatusConflict},
		{apperr.ErrCannotCancel, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, errors.New("pq: relation users does not exist"))
	assert.NotContains(t, w.Body.String(), "relation")
	assert.Len(t, c.Errors, 1)
}
