// Package mailer delivers transactional mail over SMTP. Its only current use
// is sending password-reset codes.
package mailer

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP relay is configured. Callers
// treat this like any other dispatch failure.
var ErrNotConfigured = errors.New("smtp relay not configured")

// Mailer sends mail through a single configured SMTP relay.
type Mailer struct {
	host   string
	port   int
	user   string
	pass   string
	from   string
	logger zerolog.Logger
}

func New(host string, port int, user, pass, from string, logger zerolog.Logger) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from, logger: logger}
}

// SendPasswordReset mails a one-time reset code to the given address. The
// dial and send happen synchronously so the caller sees dispatch failures.
func (m *Mailer) SendPasswordReset(to, code string) error {
	if m.host == "" {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset")
	msg.SetBody("text/html", fmt.Sprintf(
		`<h1>Password Reset Request</h1>
		<p>Your one-time code is <b>%s</b>. It expires in 10 minutes.</p>
		<p>If you did not request this, please ignore this email.</p>`, code))

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("password reset mail failed")
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info().Str("to", to).Msg("password reset mail sent")
	return nil
}
