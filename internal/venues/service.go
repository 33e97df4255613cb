// Package venues manages venue listings.
package venues

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/pkg/response"
)

// Search term bounds for venue discovery.
const (
	MinSearchLength = 2
	MaxSearchLength = 100
)

var errVenueType = apperr.Field("Venue type must be one of bar, restaurant, event_space, cafe.")

// Store is the persistence the service needs.
type Store interface {
	Create(ctx context.Context, v *models.Venue) error
	Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Venue, error)
	List(ctx context.Context, f models.VenueFilter) ([]models.Venue, int, error)
	Update(ctx context.Context, id uuid.UUID, upd models.VenueUpdate) (*models.Venue, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Cache holds venue detail reads.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service implements venue listing operations.
type Service struct {
	store  Store
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewService creates a venues service. cache may be nil.
func NewService(store Store, cache Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(id uuid.UUID) string { return "venue:" + id.String() }

// Create lists a new venue owned by the caller.
func (s *Service) Create(ctx context.Context, user *models.User, v *models.Venue) (*models.Venue, error) {
	if err := auth.Require(user, models.RoleVenueAdmin); err != nil {
		return nil, err
	}
	if !v.Type.Valid() {
		return nil, errVenueType
	}
	v.OwnerID = user.ID
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("venue created", zap.String("venue_id", v.ID.String()), zap.String("owner_id", user.ID.String()))
	return v, nil
}

// Get returns an active venue.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	if s.cache != nil {
		var v models.Venue
		if s.cache.Get(ctx, cacheKey(id), &v) {
			return &v, nil
		}
	}
	v, err := s.store.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.ErrVenueNotFound
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(id), v, s.ttl); err != nil {
			s.logger.Warn("venue cache set failed", zap.String("venue_id", id.String()), zap.Error(err))
		}
	}
	return v, nil
}

// Owned returns a venue the caller owns, including soft-deleted ones so that
// booking history stays manageable.
func (s *Service) Owned(ctx context.Context, user *models.User, id uuid.UUID) (*models.Venue, error) {
	v, err := s.store.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.ErrVenueNotFound
	}
	if user == nil || v.OwnerID != user.ID {
		return nil, apperr.ErrNotVenueOwner
	}
	return v, nil
}

// List returns a page of active venues matching f.
func (s *Service) List(ctx context.Context, f models.VenueFilter) (response.Page[models.Venue], error) {
	if f.Page < response.MinPage {
		f.Page = response.MinPage
	}
	if f.PageSize < 1 || f.PageSize > response.MaxPageSize {
		f.PageSize = response.DefaultPageSize
	}
	if n := utf8.RuneCountInString(f.Search); f.Search != "" && (n < MinSearchLength || n > MaxSearchLength) {
		return response.Page[models.Venue]{}, apperr.Field("Search must be between 2 and 100 characters.")
	}
	if f.MinCapacity != nil && f.MaxCapacity != nil && *f.MinCapacity > *f.MaxCapacity {
		return response.Page[models.Venue]{}, apperr.Field("min_capacity must not exceed max_capacity.")
	}
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return response.Page[models.Venue]{}, err
	}
	return response.NewPage(items, total, f.Page, f.PageSize), nil
}

// Update applies a partial update to an active venue the caller owns.
func (s *Service) Update(ctx context.Context, user *models.User, id uuid.UUID, upd models.VenueUpdate) (*models.Venue, error) {
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, errVenueType
	}
	if err := s.mutable(ctx, user, id); err != nil {
		return nil, err
	}
	v, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.ErrVenueDeleted
	}
	s.invalidate(ctx, id)
	return v, nil
}

// Delete soft-deletes an active venue the caller owns. Its bookings are kept.
func (s *Service) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	if err := s.mutable(ctx, user, id); err != nil {
		return err
	}
	ok, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrVenueDeleted
	}
	s.invalidate(ctx, id)
	s.logger.Info("venue deleted", zap.String("venue_id", id.String()))
	return nil
}

func (s *Service) mutable(ctx context.Context, user *models.User, id uuid.UUID) error {
	if err := auth.Require(user, models.RoleVenueAdmin); err != nil {
		return err
	}
	v, err := s.Owned(ctx, user, id)
	if err != nil {
		return err
	}
	if v.IsDeleted() {
		return apperr.ErrVenueDeleted
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("venue cache invalidate failed", zap.String("venue_id", id.String()), zap.Error(err))
	}
}
