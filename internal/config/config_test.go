package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.NotificationsEnabled)
	assert.Equal(t, 10, cfg.LowStockDefaultLimit)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 5, cfg.SMTPBreakerFailures)
	assert.Equal(t, time.Minute, cfg.SMTPBreakerCooldown)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("NOTIFICATIONS_ENABLED", "true")
	t.Setenv("SMTP_HOST", "smtp.simplesales.local")
	t.Setenv("LOW_STOCK_DEFAULT_LIMIT", "3")
	t.Setenv("SMTP_BREAKER_COOLDOWN", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.NotificationsEnabled)
	assert.Equal(t, "smtp.simplesales.local", cfg.SMTPHost)
	assert.Equal(t, 3, cfg.LowStockDefaultLimit)
	assert.Equal(t, 90*time.Second, cfg.SMTPBreakerCooldown)
}
