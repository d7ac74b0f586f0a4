package mail

import (
	"net/smtp"
	"testing"
	"time"

	"github.com/intentified/web/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	body string
	auth bool
}

func newCapturingSender(cfg Config) (*Sender, *captured) {
	got := &captured{}
	s := New(cfg)
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		got.addr = addr
		got.from = from
		got.to = to
		got.body = string(msg)
		got.auth = a != nil
		return nil
	}
	return s, got
}

func TestSendDisabledIsNoop(t *testing.T) {
	s, got := newCapturingSender(Config{Enable: false})
	require.NoError(t, s.Send(Message{To: []string{"a@example.com"}}))
	assert.Empty(t, got.addr)
	assert.False(t, s.Enabled())
}

func TestSendRequiresRecipients(t *testing.T) {
	s, _ := newCapturingSender(Config{Enable: true, Host: "smtp.example.com"})
	assert.ErrorIs(t, s.Send(Message{}), ErrNoRecipients)
}

func TestSendLeadTargeting(t *testing.T) {
	s, got := newCapturingSender(Config{
		Enable:  true,
		Host:    "smtp.example.com",
		User:    "bot@example.com",
		Pass:    "secret",
		ReplyTo: "sales@example.com",
	})

	err := s.SendLeadTargeting([]string{"sales@example.com", "ops@example.com"}, LeadTargetingData{
		UserID:      "user_123",
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Sections: []LeadSection{
			{Title: "Competitor Intent", URLs: []string{"https://a.example", "https://b.example"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, "bot@example.com", got.from)
	assert.Equal(t, []string{"sales@example.com", "ops@example.com"}, got.to)
	assert.True(t, got.auth)
	assert.Contains(t, got.body, "Subject: [Intentified] New lead targeting request")
	assert.Contains(t, got.body, "Reply-To: sales@example.com")
	assert.Contains(t, got.body, "user_123")
	assert.Contains(t, got.body, "Competitor Intent")
	assert.Contains(t, got.body, "https://b.example")
}

func TestBuildMailConfig(t *testing.T) {
	mc := BuildMailConfig(config.MailConfig{Enable: true, Host: "h", Port: 2525, From: "f@example.com"})
	assert.Equal(t, Config{Enable: true, Host: "h", Port: 2525, From: "f@example.com"}, mc)
}
