// Package mail delivers transactional email. Delivery is modeled as a small
// interface so handlers never depend on a concrete transport.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"ladle/internal/config"
)

// Sender delivers a plain-text message to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through an authenticated SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender builds an SMTPSender from configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     from,
	}
}

// Send delivers the message. It fails when credentials are not configured.
func (s *SMTPSender) Send(to, subject, body string) error {
	if s.host == "" || s.username == "" || s.password == "" {
		return fmt.Errorf("email credentials not configured")
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		s.from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender writes messages to the structured log instead of delivering
// them. It is the default in development so the mail collaborator stays
// external to the rest of the system.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(to, subject, body string) error {
	s.Logger.Info("outgoing email suppressed",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}

// FromConfig picks an SMTP sender when the config carries credentials and
// falls back to the log sender otherwise.
func FromConfig(cfg *config.Config, logger *slog.Logger) Sender {
	if cfg.SMTPHost != "" && cfg.SMTPUsername != "" && cfg.SMTPPassword != "" {
		return NewSMTPSender(cfg)
	}
	return &LogSender{Logger: logger}
}
