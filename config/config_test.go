package config

import (
	"testing"
	"time"

	"portfolio-backend/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "GIN_MODE", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_USER",
		"SMTP_PASSWORD", "SMTP_PASS", "SMTP_FROM_EMAIL", "SMTP_TIMEOUT_SECONDS", "CONTACT_EMAIL",
		"CORS_ALLOWED_ORIGINS", "CONTACT_RATE_LIMIT", "CONTACT_RATE_LIMIT_FAIL_CLOSED", "UPSTASH_REDIS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, email.DefaultDestination, cfg.ContactEmailTo)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.Email().Configured())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.ContactRateFailClosed)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USER", "relay@example.com")
	t.Setenv("SMTP_PASS", "app-password")
	t.Setenv("SMTP_TIMEOUT_SECONDS", "15")
	t.Setenv("CONTACT_EMAIL", "owner@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example/, ,https://b.example")
	t.Setenv("CONTACT_RATE_LIMIT_FAIL_CLOSED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.ContactRateFailClosed)

	mail := cfg.Email()
	assert.True(t, mail.Configured())
	assert.Equal(t, 465, mail.Port)
	assert.Equal(t, "relay@example.com", mail.Username)
	assert.Equal(t, "owner@example.com", mail.Destination)
	assert.Equal(t, 15*time.Second, mail.Timeout)
}

func TestResolveEnvGinRelease(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "release")
	assert.Equal(t, EnvProduction, resolveEnv())
}

func TestGetEnvIntInvalid(t *testing.T) {
	t.Setenv("CONTACT_RATE_LIMIT", "lots")
	assert.Equal(t, 5, getEnvInt("CONTACT_RATE_LIMIT", 5))
}
