// Package organizations manages student organization profiles.
package organizations

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/storage"
)

// errCheck marks a row rejected by a CHECK constraint.
var errCheck = apperr.Field("A field value is out of range.")

// Store is the persistence the service needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetByOwner(ctx context.Context, userID uuid.UUID) (*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
	Update(ctx context.Context, id uuid.UUID, upd models.OrganizationUpdate) (*models.Organization, error)
	SetLogoURL(ctx context.Context, id uuid.UUID, url string) (*models.Organization, error)
}

// LogoStore uploads and removes logo images.
type LogoStore interface {
	UploadLogo(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
	DeleteLogo(ctx context.Context, key string) error
	// KeyFromURL returns the object key behind a URL from UploadLogo, or "".
	KeyFromURL(url string) string
}

// Service implements organization profile operations.
type Service struct {
	store  Store
	logos  LogoStore
	logger *zap.Logger
}

// NewService creates an organizations service. logos may be nil when S3 is not configured.
func NewService(store Store, logos LogoStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logos: logos, logger: logger}
}

// OwnedBy returns the organization userID owns, or nil.
func (s *Service) OwnedBy(ctx context.Context, userID uuid.UUID) (*models.Organization, error) {
	return s.store.GetByOwner(ctx, userID)
}

// GetMine returns the caller's organization.
func (s *Service) GetMine(ctx context.Context, user *models.User) (*models.Organization, error) {
	if err := auth.Require(user, models.RoleStudentOrg); err != nil {
		return nil, err
	}
	org, err := s.store.GetByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.ErrOrganizationMissing
	}
	return org, nil
}

// Get returns an organization by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.ErrOrganizationNotFound
	}
	return org, nil
}

// Create registers the caller's organization. A user owns at most one.
func (s *Service) Create(ctx context.Context, user *models.User, org *models.Organization) (*models.Organization, error) {
	if err := auth.Require(user, models.RoleStudentOrg); err != nil {
		return nil, err
	}
	existing, err := s.store.GetByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrOrganizationExists
	}
	org.OwnerID = user.ID
	if err := s.store.Create(ctx, org); err != nil {
		return nil, err
	}
	s.logger.Info("organization created", zap.String("organization_id", org.ID.String()), zap.String("owner_id", user.ID.String()))
	return org, nil
}

// Update applies a partial update to an organization the caller owns.
func (s *Service) Update(ctx context.Context, user *models.User, id uuid.UUID, upd models.OrganizationUpdate) (*models.Organization, error) {
	if _, err := s.owned(ctx, user, id); err != nil {
		return nil, err
	}
	org, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.ErrOrganizationNotFound
	}
	return org, nil
}

// Logo is an uploaded image.
type Logo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadLogo stores an image for an organization the caller owns and records its URL.
func (s *Service) UploadLogo(ctx context.Context, user *models.User, id uuid.UUID, logo Logo) (*models.Organization, error) {
	org, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if s.logos == nil {
		return nil, fmt.Errorf("logo storage is not configured")
	}
	if logo.Size > storage.MaxLogoFileSize {
		return nil, apperr.Field("Logo must be 2MB or smaller.")
	}
	ct := storage.LogoContentType(logo.ContentType, logo.Filename)
	if ct == "" {
		return nil, apperr.Field("Logo must be a JPEG, PNG, WebP or GIF image.")
	}
	var previous string
	if org.LogoURL != nil {
		previous = *org.LogoURL
	}
	key := storage.LogoKey(id.String(), uuid.NewString(), ct)
	url, err := s.logos.UploadLogo(ctx, key, ct, logo.Body, logo.Size)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.SetLogoURL(ctx, id, url)
	if err != nil {
		return nil, err
	}
	if previous != "" {
		s.removeLogo(ctx, previous)
	}
	return updated, nil
}

// removeLogo deletes a replaced logo object. Failures only leave an orphan behind.
func (s *Service) removeLogo(ctx context.Context, url string) {
	key := s.logos.KeyFromURL(url)
	if key == "" {
		return
	}
	if err := s.logos.DeleteLogo(ctx, key); err != nil {
		s.logger.Warn("delete replaced logo failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) owned(ctx context.Context, user *models.User, id uuid.UUID) (*models.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != user.ID {
		return nil, apperr.Forbidden(apperr.CodeNotOrgOwner, "You do not own this organization.")
	}
	return org, nil
}
