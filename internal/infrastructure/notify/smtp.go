package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"CompanyNewsScanner/internal/config"
)

// Sender delivers one rendered digest to one recipient.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender ships digests over SMTP with STARTTLS.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender builds a sender from configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     from,
	}
}

// Send submits a single HTML message.
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	if s.host == "" || s.user == "" {
		return fmt.Errorf("smtp sender misconfigured")
	}

	headers := []string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.user, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
