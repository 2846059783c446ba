package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "cardapio", cfg.DB.DBName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 168, cfg.JWT.ExpirationHours)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "cardapio", cfg.Metrics.Prefix)
	assert.Equal(t, 20.0, cfg.RateLimit.Rate)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
	assert.Equal(t, "https://api.mercadopago.com", cfg.Pix.BaseURL)
	assert.Empty(t, cfg.Pix.Token)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://admin.cardapio.app, https://loja.cardapio.app")
	t.Setenv("JWT_EXPIRATION_HOURS", "24")
	t.Setenv("RATE_LIMIT_RATE", "5.5")
	t.Setenv("PIX_PROVIDER_TOKEN", "live-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 50, cfg.DB.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://admin.cardapio.app", "https://loja.cardapio.app"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, 5.5, cfg.RateLimit.Rate)
	assert.Equal(t, "live-token", cfg.Pix.Token)
}

func TestBadValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "not-a-number")
	t.Setenv("RATE_LIMIT_RATE", "fast")
	t.Setenv("DB_CONN_MAX_LIFETIME", "forever")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.DB.MaxIdleConns)
	assert.Equal(t, 20.0, cfg.RateLimit.Rate)
	assert.Equal(t, 1*time.Hour, cfg.DB.ConnMaxLifetime)
}

func TestGetDSN(t *testing.T) {
	db := DBConfig{
		Host: "localhost", Port: "5432", User: "postgres",
		Password: "secret", DBName: "cardapio", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=cardapio sslmode=disable",
		db.GetDSN())
}
