package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"simplesales/internal/config"

	"github.com/jordan-wright/email"
)

// ErrMailerDisabled is returned when no SMTP host is configured.
var ErrMailerDisabled = errors.New("mailer: SMTP_HOST not configured")

// Mailer wraps SMTP configuration for sending sale notifications with an
// optional PDF receipt attached.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Send delivers a plain-text message to a single recipient. pdfPath may be
// empty.
func (m *Mailer) Send(to, subject, body, pdfPath string) error {
	if m.host == "" {
		return ErrMailerDisabled
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
