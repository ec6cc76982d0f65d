package mail

import (
	"log/slog"
	"testing"

	"ladle/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestFromConfig(t *testing.T) {
	logger := slog.Default()

	// no SMTP credentials: messages go to the log
	sender := FromConfig(&config.Config{}, logger)
	_, ok := sender.(*LogSender)
	assert.True(t, ok)

	// full credentials: real SMTP transport
	sender = FromConfig(&config.Config{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     "587",
		SMTPUsername: "mailer@example.com",
		SMTPPassword: "hunter2-but-longer",
	}, logger)
	_, ok = sender.(*SMTPSender)
	assert.True(t, ok)

	// partial credentials stay on the log path
	sender = FromConfig(&config.Config{SMTPHost: "smtp.example.com"}, logger)
	_, ok = sender.(*LogSender)
	assert.True(t, ok)
}

func TestSMTPSender_MissingCredentials(t *testing.T) {
	s := NewSMTPSender(&config.Config{})
	err := s.Send("user@example.com", "Hello", "body")
	assert.Error(t, err)
}

func TestNewSMTPSender_FromFallsBackToUsername(t *testing.T) {
	s := NewSMTPSender(&config.Config{
		SMTPHost:     "smtp.example.com",
		SMTPUsername: "mailer@example.com",
		SMTPPassword: "secret",
	})
	assert.Equal(t, "mailer@example.com", s.from)
}
