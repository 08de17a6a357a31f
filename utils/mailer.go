package utils

import (
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML notification emails over SMTP. Build one at startup
// with NewMailerFromEnv and reuse it; the dialer is configured once.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailerFromEnv reads SMTP_HOST, SMTP_PORT, EMAIL_USER and EMAIL_PASS
// from the environment. The port defaults to 587 when unset or malformed.
func NewMailerFromEnv() *Mailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 {
		port = 587
	}
	user := os.Getenv("EMAIL_USER")
	return &Mailer{
		dialer: gomail.NewDialer(os.Getenv("SMTP_HOST"), port, user, os.Getenv("EMAIL_PASS")),
		from:   user,
	}
}

// Send delivers one HTML email to a single recipient.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
