package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSessionKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_KEY", validSessionKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, TokenBackendPaseto, cfg.Auth.TokenBackend)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTokenDuration)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenDuration)
	assert.Equal(t, "http://localhost:3000", cfg.Email.BaseURL)
	assert.Empty(t, cfg.Admin.BootstrapEmails)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_KEY", validSessionKey)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("TOKEN_BACKEND", "jwt")
	t.Setenv("SESSION_TOKEN_DURATION", "3600")
	t.Setenv("RESET_TOKEN_DURATION", "900")
	t.Setenv("ADMIN_EMAILS", "root@co.test, ops@co.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, TokenBackendJWT, cfg.Auth.TokenBackend)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTokenDuration)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenDuration)
	assert.Equal(t, []string{"root@co.test", "ops@co.test"}, cfg.Admin.BootstrapEmails)
}

func TestLoad_SessionKeyLength(t *testing.T) {
	t.Setenv("SESSION_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_KEY")
}

func TestLoad_UnknownTokenBackend(t *testing.T) {
	t.Setenv("SESSION_KEY", validSessionKey)
	t.Setenv("TOKEN_BACKEND", "cookies")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_BACKEND")
}

func TestLoad_BadDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("SESSION_KEY", validSessionKey)
	t.Setenv("SESSION_TOKEN_DURATION", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTokenDuration)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.internal", Port: "5432", User: "app",
		Password: "secret", DBName: "talentbridge", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=app password=secret dbname=talentbridge sslmode=require",
		cfg.ConnectionString(),
	)
}
