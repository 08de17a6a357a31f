package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMailerFromEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("EMAIL_USER", "noreply@example.com")
	t.Setenv("EMAIL_PASS", "secret")

	m := NewMailerFromEnv()
	assert.Equal(t, "smtp.example.com", m.dialer.Host)
	assert.Equal(t, 2525, m.dialer.Port)
	assert.Equal(t, "noreply@example.com", m.from)
}

func TestNewMailerFromEnvDefaultPort(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "not-a-number")

	m := NewMailerFromEnv()
	assert.Equal(t, 587, m.dialer.Port)
}
