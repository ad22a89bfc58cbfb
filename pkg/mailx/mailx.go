// Package mailx sends outbound mail for the auth service. The service only
// ever produces delivery requests; rendering and SMTP mechanics live here so
// the credential core stays free of them.
package mailx

import (
	"errors"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single message to one recipient.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether enough settings are present to dial SMTP.
func (c Config) Configured() bool { return c.Host != "" && c.From != "" }

// SMTPSender delivers mail through a gomail SMTP dialer.
type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTPSender builds a sender from SMTP settings.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if !cfg.Configured() {
		return nil, errors.New("mailx: SMTP host and from address are required")
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}

	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password),
	}, nil
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(msg)
}

// LogSender is the dev fallback used when SMTP is not configured. It records
// that a message would have been sent without logging the body, since reset
// mail bodies contain live capability codes.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(to, subject, htmlBody string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail delivery skipped (SMTP not configured)",
		"to", to,
		"subject", subject,
	)
	return nil
}
