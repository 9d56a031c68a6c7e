// Package mailer sends plain-text transactional mail over SMTP.
package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/config"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
	log  logger.Logger
}

func NewSMTPMailer(cfg config.SMTP, log logger.Logger) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
		log:  log,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	const op = "mailer.Send"

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("%s: send to %s: %w", op, to, err)
	}

	m.log.Infow("email sent", "to", to, "subject", subject)
	return nil
}
