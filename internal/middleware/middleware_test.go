package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

type stubVerifier struct {
	id  auth.Identity
	err error
}

func (s stubVerifier) Verify(string) (auth.Identity, error) { return s.id, s.err }

type stubSyncer struct {
	user *models.User
	err  error
}

func (s stubSyncer) Sync(context.Context, auth.Identity) (*models.User, error) { return s.user, s.err }

func newRouter(v auth.Verifier, s UserSyncer, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(zap.NewNop()))
	chain := append([]gin.HandlerFunc{Authenticate(v, s)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		response.OK(c, CurrentUser(c))
	})
	r.GET("/me", chain...)
	return r
}

func do(t *testing.T, r http.Handler, header string) (*httptest.ResponseRecorder, response.Body) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestAuthenticate(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "alice@school.edu", Role: models.RoleStudentOrg}
	ok := stubVerifier{id: auth.Identity{Email: user.Email}}

	t.Run("missing header", func(t *testing.T) {
		w, body := do(t, newRouter(ok, stubSyncer{user: user}), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, string(apperr.CodeInvalidHeader), body.Code)
	})
	t.Run("bad token", func(t *testing.T) {
		w, body := do(t, newRouter(stubVerifier{err: apperr.ErrInvalidToken}, stubSyncer{user: user}), "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, string(apperr.CodeInvalidToken), body.Code)
	})
	t.Run("sync rejects", func(t *testing.T) {
		w, body := do(t, newRouter(ok, stubSyncer{err: apperr.ErrStudentEmailRequired}), "Bearer x")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, string(apperr.CodeStudentEmailRequired), body.Code)
	})
	t.Run("ok", func(t *testing.T) {
		w, body := do(t, newRouter(ok, stubSyncer{user: user}), "Bearer x")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		data := body.Data.(map[string]interface{})
		assert.Equal(t, user.ID.String(), data["id"])
	})
}

func TestRequireRole(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "alice@school.edu", Role: models.RoleStudentOrg}
	v := stubVerifier{id: auth.Identity{Email: user.Email}}

	w, body := do(t, newRouter(v, stubSyncer{user: user}, RequireRole(models.RoleVenueAdmin)), "Bearer x")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, string(apperr.CodeVenueAdminRequired), body.Code)

	w, _ = do(t, newRouter(v, stubSyncer{user: user}, RequireRole(models.RoleStudentOrg)), "Bearer x")
	assert.Equal(t, http.StatusOK, w.Code)
}
