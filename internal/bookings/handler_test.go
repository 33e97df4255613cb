package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/middleware"
	"github.com/venuelink/backend/internal/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func newTestRouter(f *fixture, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUser, user)
		c.Set(middleware.ContextUserID, user.ID)
		c.Next()
	})
	h := NewHandler(f.svc)
	r.POST("/bookings", h.Create)
	r.GET("/bookings/me", h.ListMine)
	r.PATCH("/bookings/:id/cancel", h.Cancel)
	r.PATCH("/bookings/:id/accept", h.Accept)
	r.GET("/venues/:id/bookings", h.ListForVenue)
	r.GET("/venues/:id/stats", h.VenueStats)
	return r
}

func call(t *testing.T, r http.Handler, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func TestHandlerCreateAndList(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, f.student)

	code, env := call(t, r, http.MethodPost, "/bookings", map[string]interface{}{
		"venue_id":    f.venue.ID,
		"event_name":  "Spring Formal",
		"event_date":  "2025-06-01",
		"event_time":  "14:00",
		"guest_count": 50,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "2025-06-01", created["event_date"])
	assert.Equal(t, "14:00", created["event_time"])
	assert.Equal(t, "pending", created["status"])

	code, env = call(t, r, http.MethodPost, "/bookings", map[string]interface{}{
		"venue_id":    f.venue.ID,
		"event_name":  "Other",
		"event_date":  "2025-06-01",
		"event_time":  "14:00",
		"guest_count": 5,
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, string(apperr.CodeSlotTaken), env.Code)

	code, env = call(t, r, http.MethodGet, "/bookings/me?page=1&page_size=20", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Items      []map[string]interface{} `json:"items"`
		Total      int                      `json:"total"`
		TotalPages int                      `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2025-06-01", page.Items[0]["event_date"])
}

func TestHandlerBindingErrors(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, f.student)

	code, _ := call(t, r, http.MethodPost, "/bookings", map[string]interface{}{
		"venue_id":    f.venue.ID,
		"event_name":  "Formal",
		"event_date":  "06/01/2025",
		"event_time":  "14:00",
		"guest_count": 5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, r, http.MethodGet, "/bookings/me?page_size=500", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, r, http.MethodGet, "/bookings/me?status=unknown", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = call(t, r, http.MethodPatch, "/bookings/not-a-uuid/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandlerCancelStatuses(t *testing.T) {
	f := newFixture(t)
	b := f.store.put(models.BookingCompleted, f.org.ID, f.venue.ID)

	code, env := call(t, newTestRouter(f, f.student), http.MethodPatch, "/bookings/"+b.ID.String()+"/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, string(apperr.CodeCannotCancel), env.Code)

	nobody := &models.User{ID: uuid.New(), Role: models.RoleStudentOrg}
	code, env = call(t, newTestRouter(f, nobody), http.MethodPatch, "/bookings/"+b.ID.String()+"/cancel", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, string(apperr.CodeNoOrganization), env.Code)
}

func TestHandlerVenueSide(t *testing.T) {
	f := newFixture(t)
	b := f.store.put(models.BookingPending, f.org.ID, f.venue.ID)
	r := newTestRouter(f, f.venueOwner)

	code, env := call(t, r, http.MethodPatch, "/bookings/"+b.ID.String()+"/accept", nil)
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = call(t, r, http.MethodPatch, "/bookings/"+b.ID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, code, env.Error)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "cancelled", got["status"])

	code, _ = call(t, r, http.MethodGet, "/venues/"+f.venue.ID.String()+"/bookings?status=cancelled", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodGet, "/venues/"+f.venue.ID.String()+"/stats", nil)
	assert.Equal(t, http.StatusOK, code)
	var stats models.VenueStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 0, stats.PendingCount)
}
