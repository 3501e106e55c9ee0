package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTP sends HTML mail over a plain SMTP connection.
type SMTP struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTP(cfg Config) *SMTP {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTP{
		addr: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (m *SMTP) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String()))
}
