package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuelink/backend/internal/apperr"
	"github.com/venuelink/backend/internal/models"
)

type fixture struct {
	store  *memStore
	notes  *recordingNotifier
	svc    *Service
	orgs   *fakeOrgs
	venues *fakeVenues

	student    *models.User
	org        *models.Organization
	venueOwner *models.User
	venue      *models.Venue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      newMemStore(),
		notes:      &recordingNotifier{},
		orgs:       &fakeOrgs{byOwner: map[uuid.UUID]*models.Organization{}},
		venues:     &fakeVenues{venues: map[uuid.UUID]*models.Venue{}},
		student:    &models.User{ID: uuid.New(), Email: "alice@school.edu", Role: models.RoleStudentOrg},
		venueOwner: &models.User{ID: uuid.New(), Email: "owner@bar.com", Role: models.RoleVenueAdmin},
	}
	f.org = &models.Organization{ID: uuid.New(), OwnerID: f.student.ID, Name: "Chess Club"}
	f.orgs.byOwner[f.student.ID] = f.org
	f.venue = &models.Venue{ID: uuid.New(), OwnerID: f.venueOwner.ID, Name: "The Bar", Capacity: 100, BasePriceCents: 20000}
	f.venues.venues[f.venue.ID] = f.venue

	f.svc = NewService(NewLedger(f.store, f.notes, nil), f.orgs, f.venues, nil)
	f.svc.now = func() time.Time { return time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) request() Request {
	return Request{
		VenueID:    f.venue.ID,
		EventName:  "Spring Formal",
		EventDate:  date("2025-06-01"),
		EventTime:  "14:00",
		GuestCount: 50,
	}
}

func TestRequestBooking(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.RequestBooking(context.Background(), f.student, f.request())
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, f.org.ID, b.OrganizationID)
	assert.Equal(t, "2025-06-01", b.EventDateString())

	_, err = f.svc.RequestBooking(context.Background(), f.student, f.request())
	assert.ErrorIs(t, err, apperr.ErrSlotTaken)
}

func TestRequestBookingValidation(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("x", 2001)
	tests := []struct {
		name   string
		user   *models.User
		mutate func(*Request)
		want   error
	}{
		{"venue admin", f.venueOwner, func(*Request) {}, apperr.ErrStudentOrgRequired},
		{"no organization", &models.User{ID: uuid.New(), Role: models.RoleStudentOrg}, func(*Request) {}, apperr.ErrNoOrganization},
		{"unknown venue", f.student, func(r *Request) { r.VenueID = uuid.New() }, apperr.ErrVenueNotFound},
		{"zero guests", f.student, func(r *Request) { r.GuestCount = 0 }, apperr.ErrInvalidGuestCount},
		{"over capacity", f.student, func(r *Request) { r.GuestCount = 101 }, apperr.ErrExceedsCapacity},
		{"in the past", f.student, func(r *Request) { r.EventDate = date("2025-04-30") }, apperr.ErrEventInPast},
		{"short name", f.student, func(r *Request) { r.EventName = " a " }, apperr.Field("")},
		{"long requests", f.student, func(r *Request) { r.SpecialRequests = &long }, apperr.Field("")},
		{"bad time", f.student, func(r *Request) { r.EventTime = "25:00" }, apperr.Field("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			tt.mutate(&req)
			_, err := f.svc.RequestBooking(context.Background(), tt.user, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// Today is allowed; capacity is inclusive.
	req := f.request()
	req.EventDate = date("2025-05-01")
	req.GuestCount = 100
	_, err := f.svc.RequestBooking(context.Background(), f.student, req)
	assert.NoError(t, err)
}

func TestCancelBookingCheckOrder(t *testing.T) {
	f := newFixture(t)
	b := f.store.put(models.BookingPending, f.org.ID, f.venue.ID)

	// Missing booking is reported first.
	_, err := f.svc.CancelBooking(context.Background(), &models.User{ID: uuid.New()}, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrBookingNotFound)

	// A user without an organization is forbidden, never not-found.
	nobody := &models.User{ID: uuid.New(), Role: models.RoleStudentOrg}
	_, err = f.svc.CancelBooking(context.Background(), nobody, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNoOrganization)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	other := &models.User{ID: uuid.New(), Role: models.RoleStudentOrg}
	f.orgs.byOwner[other.ID] = &models.Organization{ID: uuid.New(), OwnerID: other.ID}
	_, err = f.svc.CancelBooking(context.Background(), other, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotOrgOwner)

	got, err := f.svc.CancelBooking(context.Background(), f.student, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)
}

func TestCancelBookingTerminal(t *testing.T) {
	f := newFixture(t)
	for _, st := range []models.BookingStatus{models.BookingCompleted, models.BookingRejected, models.BookingCancelled} {
		b := f.store.put(st, f.org.ID, f.venue.ID)
		_, err := f.svc.CancelBooking(context.Background(), f.student, b.ID)
		assert.ErrorIs(t, err, apperr.ErrCannotCancel, st)
	}
	confirmed := f.store.put(models.BookingConfirmed, f.org.ID, f.venue.ID)
	got, err := f.svc.CancelBooking(context.Background(), f.student, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)
}

func TestListMyBookings(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListMyBookings(context.Background(), f.venueOwner, Filter{})
	assert.ErrorIs(t, err, apperr.ErrStudentOrgRequired)

	_, err = f.svc.ListMyBookings(context.Background(), &models.User{ID: uuid.New(), Role: models.RoleStudentOrg}, Filter{})
	assert.ErrorIs(t, err, apperr.ErrOrganizationMissing)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	f.store.put(models.BookingPending, f.org.ID, f.venue.ID)
	f.store.put(models.BookingPending, uuid.New(), f.venue.ID)
	page, err := f.svc.ListMyBookings(context.Background(), f.student, Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, f.org.ID, page.Items[0].OrganizationID)
}

func TestVenueOwnerTransitions(t *testing.T) {
	f := newFixture(t)
	b := f.store.put(models.BookingPending, f.org.ID, f.venue.ID)

	stranger := &models.User{ID: uuid.New(), Role: models.RoleVenueAdmin}
	_, err := f.svc.AcceptBooking(context.Background(), stranger, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotVenueOwner)

	_, err = f.svc.CompleteBooking(context.Background(), f.venueOwner, b.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	got, err := f.svc.AcceptBooking(context.Background(), f.venueOwner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, got.Status)

	_, err = f.svc.RejectBooking(context.Background(), f.venueOwner, b.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	got, err = f.svc.VenueCancelBooking(context.Background(), f.venueOwner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)

	pending := f.store.put(models.BookingPending, f.org.ID, f.venue.ID)
	_, err = f.svc.VenueCancelBooking(context.Background(), f.venueOwner, pending.ID)
	assert.ErrorIs(t, err, apperr.ErrTransitionNotAllowed)

	got, err = f.svc.RejectBooking(context.Background(), f.venueOwner, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, got.Status)
}

func TestVenueBookingsOnDeletedVenue(t *testing.T) {
	f := newFixture(t)
	b := f.store.put(models.BookingConfirmed, f.org.ID, f.venue.ID)
	now := time.Now()
	f.venue.DeletedAt = &now

	page, err := f.svc.ListVenueBookings(context.Background(), f.venueOwner, f.venue.ID, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	got, err := f.svc.CompleteBooking(context.Background(), f.venueOwner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)

	_, err = f.svc.RequestBooking(context.Background(), f.student, f.request())
	assert.ErrorIs(t, err, apperr.ErrVenueNotFound)
}

func TestVenueStatsRequiresOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.VenueStats(context.Background(), &models.User{ID: uuid.New(), Role: models.RoleVenueAdmin}, f.venue.ID)
	assert.ErrorIs(t, err, apperr.ErrNotVenueOwner)

	stats, err := f.svc.VenueStats(context.Background(), f.venueOwner, f.venue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VenueStats{}, stats)
}

func TestParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.store.put(models.BookingPending, f.org.ID, f.venue.ID)

	got, err := f.svc.Participant(ctx, f.student, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = f.svc.Participant(ctx, f.venueOwner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	otherStudent := &models.User{ID: uuid.New(), Email: "bob@school.edu", Role: models.RoleStudentOrg}
	_, err = f.svc.Participant(ctx, otherStudent, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotBookingParty)

	otherOwner := &models.User{ID: uuid.New(), Email: "other@bar.com", Role: models.RoleVenueAdmin}
	_, err = f.svc.Participant(ctx, otherOwner, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotBookingParty)

	_, err = f.svc.Participant(ctx, f.student, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrBookingNotFound)
}
