// Package mail delivers transactional messages over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

// Config holds SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendFunc matches smtp.SendMail; swapped in tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP sends plain-text mail through a single relay.
type SMTP struct {
	cfg    Config
	send   sendFunc
	logger *logger.Logger
}

var _ model.Mailer = (*SMTP)(nil)

// NewSMTP creates a mailer backed by the configured relay.
func NewSMTP(cfg Config, logger *logger.Logger) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail, logger: logger}
}

// Send delivers a plain-text message. The context is honored between
// queueing and hand-off; smtp.SendMail itself does not take one.
func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	s.logger.Debug("mail sent", "to", to, "subject", subject)
	return nil
}
