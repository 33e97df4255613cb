package auth

import (
	"crypto/rsa"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/venuelink/backend/internal/apperr"
)

// DefaultRoleClaim is the custom claim carrying the caller's requested role.
const DefaultRoleClaim = "org_role"

// Identity is what a verified bearer token says about its caller.
type Identity struct {
	Subject  string
	Email    string
	RoleHint string // empty when the token carries no role claim
}

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// JWTService verifies tokens signed either with a shared secret (HS256)
// or by the identity provider's RSA key (RS256). It can also mint HS256
// tokens for local development.
type JWTService struct {
	secret      []byte
	publicKey   *rsa.PublicKey
	issuer      string
	roleClaim   string
	expireHours int
}

// Options configures a JWTService. PublicKeyPEM takes precedence over Secret.
type Options struct {
	Secret       string
	PublicKeyPEM string
	Issuer       string
	RoleClaim    string
	ExpireHours  int
}

// NewJWTService creates a JWT service.
func NewJWTService(opts Options) (*JWTService, error) {
	s := &JWTService{
		secret:      []byte(opts.Secret),
		issuer:      opts.Issuer,
		roleClaim:   opts.RoleClaim,
		expireHours: opts.ExpireHours,
	}
	if s.roleClaim == "" {
		s.roleClaim = DefaultRoleClaim
	}
	if s.expireHours <= 0 {
		s.expireHours = 24
	}
	if opts.PublicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKeyPEM))
		if err != nil {
			return nil, err
		}
		s.publicKey = key
	}
	return s, nil
}

// Generate creates an HS256 token for local development and tests.
// An empty role omits the role claim.
func (s *JWTService) Generate(subject, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(s.expireHours) * time.Hour).Unix(),
		"jti":   uuid.New().String(),
	}
	if s.issuer != "" {
		claims["iss"] = s.issuer
	}
	if role != "" {
		claims[s.roleClaim] = role
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token, returning the caller's identity.
func (s *JWTService) Verify(tokenString string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.publicKey != nil {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, opts...)
	if err != nil || !token.Valid {
		return Identity{}, apperr.ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}, apperr.ErrEmailRequired
	}
	return Identity{Subject: sub, Email: email, RoleHint: s.roleHint(claims)}, nil
}

func (s *JWTService) keyFunc(t *jwt.Token) (interface{}, error) {
	if s.publicKey != nil {
		return s.publicKey, nil
	}
	return s.secret, nil
}

// roleHint reads the role claim at the top level or under public_metadata,
// where hosted identity providers put custom user attributes.
func (s *JWTService) roleHint(claims jwt.MapClaims) string {
	if v, ok := claims[s.roleClaim].(string); ok && v != "" {
		return v
	}
	if meta, ok := claims["public_metadata"].(map[string]interface{}); ok {
		if v, ok := meta[s.roleClaim].(string); ok {
			return v
		}
	}
	return ""
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.ErrInvalidHeader
	}
	return strings.TrimSpace(parts[1]), nil
}
