package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ligue_crm")
	t.Setenv("JWT_SIGNING_KEY", "segredo")
	t.Setenv("APP_TIMEZONE", "UTC")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 10, cfg.CaptureRateLimit)
	assert.Equal(t, 3*time.Second, cfg.TrackingTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Zero(t, cfg.EventRetention)
	assert.False(t, cfg.TrustProxy)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.WhatsAppEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.ligue.com, https://ligue.com ,")
	t.Setenv("CAPTURE_RATE_LIMIT", "30")
	t.Setenv("TRACKING_TIMEOUT", "500ms")
	t.Setenv("SHUTDOWN_TIMEOUT", "abc")
	t.Setenv("EVENT_RETENTION_DAYS", "90")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_ID", "123")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://app.ligue.com", "https://ligue.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30, cfg.CaptureRateLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.TrackingTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 90*24*time.Hour, cfg.EventRetention)
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.WhatsAppEnabled())
	assert.True(t, cfg.TrustProxy)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SIGNING_KEY", "")
	t.Setenv("CAPTURE_RATE_LIMIT", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SIGNING_KEY")
	assert.Contains(t, err.Error(), "CAPTURE_RATE_LIMIT")

	setRequired(t)
	t.Setenv("APP_TIMEZONE", "Marte/Olympus")
	_, err = Load()
	assert.Error(t, err)
}
