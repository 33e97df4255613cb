// Package users maps verified identities to local accounts.
package users

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/models"
)

// studentEmail is the address shape required of student_org accounts.
// It must match the student_org_edu_email_check constraint on users.
var studentEmail = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.edu$`)

// IsStudentEmail reports whether email is acceptable for a student_org account.
func IsStudentEmail(email string) bool {
	return studentEmail.MatchString(email)
}

// Store is the persistence the directory needs.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateIfAbsent(ctx context.Context, email string, role models.Role) (*models.User, error)
}

// Directory resolves identities to users, creating accounts on first sight.
type Directory struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewDirectory creates a user directory.
func NewDirectory(store Store, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{store: store, validate: validator.New(), logger: logger}
}

// Sync returns the local user for id. An existing account is returned as-is;
// the token's role hint only applies when the account is created.
func (d *Directory) Sync(ctx context.Context, id auth.Identity) (*models.User, error) {
	email := strings.TrimSpace(id.Email)
	if err := d.validate.Var(email, "required,email"); err != nil {
		return nil, apperr.ErrInvalidEmail
	}

	existing, err := d.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	role, err := resolveRole(id.RoleHint)
	if err != nil {
		return nil, err
	}
	if role == models.RoleStudentOrg && !IsStudentEmail(email) {
		return nil, apperr.ErrStudentEmailRequired
	}

	created, err := d.store.CreateIfAbsent(ctx, email, role)
	if err != nil {
		return nil, err
	}
	if created != nil {
		d.logger.Info("user created", zap.String("user_id", created.ID.String()), zap.String("role", string(role)))
		return created, nil
	}

	// A concurrent sync inserted the row first.
	existing, err = d.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("user %s vanished after insert conflict", email)
	}
	return existing, nil
}

// resolveRole maps a token role hint to a Role. No hint means student_org.
func resolveRole(hint string) (models.Role, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return models.RoleStudentOrg, nil
	}
	role, ok := models.ParseRole(hint)
	if !ok {
		return "", apperr.ErrInvalidRole
	}
	return role, nil
}
