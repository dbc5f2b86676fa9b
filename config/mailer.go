package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// SMTPMailer sends portal email over SMTP with mandatory STARTTLS.
// It is passed into the services that need it instead of being a
// package-level singleton, so tests can swap in a double.
type SMTPMailer struct {
	host          string
	port          int
	user          string
	pass          string
	from          string // e.g. "Aula CEIP <no-reply@aulaceip.example>"
	skipTLSVerify bool
}

// NewSMTPMailerFromEnv builds the mailer from SMTP_* environment variables.
func NewSMTPMailerFromEnv() *SMTPMailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		host:          os.Getenv("SMTP_HOST"),
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          os.Getenv("SMTP_FROM"),
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// Send delivers one message. Both bodies are optional but at least one of
// text/html should be set; html is attached as the rich alternative.
func (m *SMTPMailer) Send(to []string, subject, text, html string) error {
	if len(to) == 0 {
		return nil
	}
	if m.host == "" || m.from == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	if text != "" {
		msg.SetBody("text/plain", text)
		if html != "" {
			msg.AddAlternative("text/html", html)
		}
	} else {
		msg.SetBody("text/html", html)
	}

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)

	// Force STARTTLS on 587 (works for Gmail/Office365).
	d.StartTLSPolicy = mail.MandatoryStartTLS

	// TLS needs the ServerName to match the SMTP hostname; skip-verify is
	// for dev only, via SMTP_SKIP_TLS_VERIFY=1.
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify,
	}

	return d.DialAndSend(msg)
}
