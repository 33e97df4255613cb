package bookings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/models"
)

type slot struct {
	venue uuid.UUID
	date  string
	time  string
}

// memStore is an in-memory Store that enforces the slot constraint and
// compare-and-set status updates the way the database does.
type memStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*models.Booking
	slots    map[slot]uuid.UUID
	clock    time.Time
	prices   map[uuid.UUID]int

	// beforeSetStatus runs once, inside SetStatus, before the compare.
	beforeSetStatus func(b *models.Booking)
}

func newMemStore() *memStore {
	return &memStore{
		bookings: map[uuid.UUID]*models.Booking{},
		slots:    map[slot]uuid.UUID{},
		prices:   map[uuid.UUID]int{},
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) Insert(_ context.Context, nb models.NewBooking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := slot{nb.VenueID, nb.EventDate.Format(models.DateLayout), nb.EventTime}
	if _, taken := m.slots[key]; taken {
		return nil, apperr.ErrSlotTaken
	}
	m.clock = m.clock.Add(time.Second)
	b := &models.Booking{
		ID:              uuid.New(),
		VenueID:         nb.VenueID,
		OrganizationID:  nb.OrganizationID,
		EventName:       nb.EventName,
		EventDate:       nb.EventDate,
		EventTime:       nb.EventTime,
		GuestCount:      nb.GuestCount,
		SpecialRequests: nb.SpecialRequests,
		Status:          models.BookingPending,
		CreatedAt:       m.clock,
		UpdatedAt:       m.clock,
	}
	m.bookings[b.ID] = b
	m.slots[key] = b.ID
	cp := *b
	return &cp, nil
}

// put stores a booking in an arbitrary status.
func (m *memStore) put(status models.BookingStatus, orgID, venueID uuid.UUID) *models.Booking {
	b, err := m.Insert(context.Background(), models.NewBooking{
		VenueID:        venueID,
		OrganizationID: orgID,
		EventName:      "Formal",
		EventDate:      time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(m.bookings)) * 24 * time.Hour),
		EventTime:      "19:00",
		GuestCount:     10,
	})
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	m.bookings[b.ID].Status = status
	m.mu.Unlock()
	b.Status = status
	return b
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) SetStatus(_ context.Context, id uuid.UUID, from, to models.BookingStatus) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	if hook := m.beforeSetStatus; hook != nil {
		m.beforeSetStatus = nil
		hook(b)
	}
	if b.Status != from {
		return nil, nil
	}
	m.clock = m.clock.Add(time.Second)
	b.Status = to
	b.UpdatedAt = m.clock
	cp := *b
	return &cp, nil
}

func (m *memStore) list(match func(*models.Booking) bool, f Filter) ([]models.Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Booking
	for _, b := range m.bookings {
		if !match(b) || (f.Status != nil && b.Status != *f.Status) {
			continue
		}
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	start := (f.Page - 1) * f.PageSize
	if start > total {
		start = total
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *memStore) ListByOrganization(_ context.Context, orgID uuid.UUID, f Filter) ([]models.Booking, int, error) {
	return m.list(func(b *models.Booking) bool { return b.OrganizationID == orgID }, f)
}

func (m *memStore) ListByVenue(_ context.Context, venueID uuid.UUID, f Filter) ([]models.Booking, int, error) {
	return m.list(func(b *models.Booking) bool { return b.VenueID == venueID }, f)
}

func (m *memStore) Stats(_ context.Context, venueID uuid.UUID, from, to time.Time) (models.VenueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s models.VenueStats
	for _, b := range m.bookings {
		if b.VenueID != venueID {
			continue
		}
		if b.Status == models.BookingPending {
			s.PendingCount++
		}
		inMonth := !b.EventDate.Before(from) && b.EventDate.Before(to)
		if !inMonth {
			continue
		}
		switch b.Status {
		case models.BookingPending:
			s.BookingsThisMonth++
		case models.BookingConfirmed, models.BookingCompleted:
			s.BookingsThisMonth++
			s.RevenueCents += m.prices[venueID]
		}
	}
	return s, nil
}

func (m *memStore) Elapsed(_ context.Context, day time.Time, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	for _, b := range m.bookings {
		if b.Status == models.BookingConfirmed && b.EventDate.Before(day) && len(ids) < limit {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

type notification struct {
	id       uuid.UUID
	from, to models.BookingStatus
	party    Party
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) BookingChanged(_ context.Context, b *models.Booking, from models.BookingStatus, party Party) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{b.ID, from, b.Status, party})
}

type fakeOrgs struct {
	byOwner map[uuid.UUID]*models.Organization
}

func (f *fakeOrgs) OwnedBy(_ context.Context, userID uuid.UUID) (*models.Organization, error) {
	return f.byOwner[userID], nil
}

type fakeVenues struct {
	venues map[uuid.UUID]*models.Venue
}

func (f *fakeVenues) Get(_ context.Context, id uuid.UUID) (*models.Venue, error) {
	v, ok := f.venues[id]
	if !ok || v.IsDeleted() {
		return nil, apperr.ErrVenueNotFound
	}
	return v, nil
}

func (f *fakeVenues) Owned(_ context.Context, user *models.User, id uuid.UUID) (*models.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, apperr.ErrVenueNotFound
	}
	if v.OwnerID != user.ID {
		return nil, apperr.ErrNotVenueOwner
	}
	return v, nil
}
