package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelink/backend/internal/apperr"
)

func newHS256(t *testing.T) *JWTService {
	t.Helper()
	s, err := NewJWTService(Options{Secret: "test-secret", ExpireHours: 1})
	require.NoError(t, err)
	return s
}

func TestVerifyRoundTrip(t *testing.T) {
	s := newHS256(t)
	token, err := s.Generate("user_123", "alice@school.edu", "venue_admin")
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{Subject: "user_123", Email: "alice@school.edu", RoleHint: "venue_admin"}, id)
}

func TestVerifyWithoutRole(t *testing.T) {
	s := newHS256(t)
	token, err := s.Generate("user_123", "alice@school.edu", "")
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, id.RoleHint)
}

func TestVerifyRoleFromPublicMetadata(t *testing.T) {
	s := newHS256(t)
	claims := jwt.MapClaims{
		"sub":             "user_9",
		"email":           "venue@bar.com",
		"exp":             time.Now().Add(time.Hour).Unix(),
		"public_metadata": map[string]interface{}{"org_role": "venue_admin"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "venue_admin", id.RoleHint)
}

func TestVerifyRejects(t *testing.T) {
	s := newHS256(t)
	sign := func(claims jwt.MapClaims, secret string) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", apperr.ErrInvalidToken},
		{"wrong secret", sign(jwt.MapClaims{"email": "a@b.edu", "exp": future}, "other"), apperr.ErrInvalidToken},
		{"expired", sign(jwt.MapClaims{"email": "a@b.edu", "exp": time.Now().Add(-time.Hour).Unix()}, "test-secret"), apperr.ErrInvalidToken},
		{"no expiry", sign(jwt.MapClaims{"email": "a@b.edu"}, "test-secret"), apperr.ErrInvalidToken},
		{"missing email", sign(jwt.MapClaims{"sub": "x", "exp": future}, "test-secret"), apperr.ErrEmailRequired},
		{"blank email", sign(jwt.MapClaims{"email": "  ", "exp": future}, "test-secret"), apperr.ErrEmailRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerifyRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	s, err := NewJWTService(Options{PublicKeyPEM: string(pemKey), Issuer: "https://idp.example"})
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":      "user_rs",
		"email":    "org@state.edu",
		"iss":      "https://idp.example",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"org_role": "student_org",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "org@state.edu", id.Email)
	assert.Equal(t, "student_org", id.RoleHint)

	// HS256 tokens are refused once an RSA key is configured.
	hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("x"))
	require.NoError(t, err)
	_, err = s.Verify(hs)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)

	claims["iss"] = "https://evil.example"
	wrongIss, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	_, err = s.Verify(wrongIss)
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestNewJWTServiceBadPEM(t *testing.T) {
	_, err := NewJWTService(Options{PublicKeyPEM: "nope"})
	assert.Error(t, err)
}

func TestParseBearer(t *testing.T) {
	tok, err := ParseBearer("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc", "bearer abc", "abc"} {
		_, err := ParseBearer(h)
		assert.ErrorIs(t, err, apperr.ErrInvalidHeader, h)
	}
}
