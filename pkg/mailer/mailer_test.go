package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_DisabledWithoutHost(t *testing.T) {
	m := New(Config{FromAddress: "noreply@venuelink.app"}, nil)
	assert.False(t, m.Enabled())
	require.NoError(t, m.Send(context.Background(), Message{To: "a@school.edu", Subject: "hi", Text: "body"}))
}

func TestMailer_RejectsEmptyRecipient(t *testing.T) {
	m := New(Config{}, nil)
	assert.Error(t, m.Send(context.Background(), Message{Subject: "hi"}))
}

func TestMailer_CancelledContext(t *testing.T) {
	m := New(Config{Host: "smtp.invalid", Port: 587}, nil)
	assert.True(t, m.Enabled())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: "a@school.edu"}), context.Canceled)
}

func TestMailer_ComposeHeaders(t *testing.T) {
	m := New(Config{FromAddress: "noreply@venuelink.app", FromName: "VenueLink"}, nil)
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	gm := m.compose(Message{To: "a@school.edu", Subject: "Booking confirmed", Text: "ok"}, now)

	assert.Equal(t, []string{"a@school.edu"}, gm.GetHeader("To"))
	assert.Equal(t, []string{"Booking confirmed"}, gm.GetHeader("Subject"))
	assert.Equal(t, []string{now.Format(time.RFC1123Z)}, gm.GetHeader("Date"))
	from := gm.GetHeader("From")
	require.Len(t, from, 1)
	assert.Contains(t, from[0], "noreply@venuelink.app")

	id := gm.GetHeader("Message-ID")
	require.Len(t, id, 1)
	assert.True(t, strings.HasSuffix(id[0], "@venuelink.app>"))
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "venuelink.app", domainOf("noreply@venuelink.app"))
	assert.Equal(t, "localhost", domainOf("noreply"))
	assert.Equal(t, "localhost", domainOf("noreply@"))
}
