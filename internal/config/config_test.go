package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRES_HOURS", "")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "not-a-number")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, _ := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 24, cfg.JWTExpiresHours)
	assert.Equal(t, 30, cfg.ReportCacheTTLSeconds)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":3000", cfg.Address())
}

func TestLoadDoesNotInjectJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, _ := Load()
	require.Empty(t, cfg.JWTSecret)
}

func TestDSNPrefersDatabaseURL(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://pos@db/pos"}
	assert.Equal(t, "postgres://pos@db/pos", cfg.DSN())

	cfg = Config{DBHost: "db", DBUser: "pos", DBPassword: "pw", DBName: "pos", DBPort: "5432", DefaultTimezone: "UTC"}
	assert.Equal(t, "host=db user=pos password=pw dbname=pos port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
