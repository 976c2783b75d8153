package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("SECRET_KEY", "s3cret")

	cfg := Load()

	require.Equal(t, "9001", cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.AccessTTL)
	require.Equal(t, 48*time.Hour, cfg.RefreshTTL)
	require.Equal(t, "s3cret", cfg.SecretKey)
	require.NotEmpty(t, cfg.DatabaseURL)
	// the default must point at the mounted callback route
	require.Equal(t, "http://localhost:8000/api/v1/auth/google/callback", cfg.GoogleRedirectURL)
}

func TestEnvOrDefaultDuration(t *testing.T) {
	t.Setenv("TEST_TTL", "30m")
	require.Equal(t, 30*time.Minute, envOrDefaultDuration("TEST_TTL", time.Hour))

	t.Setenv("TEST_TTL", "45")
	require.Equal(t, 45*time.Minute, envOrDefaultDuration("TEST_TTL", time.Hour))

	t.Setenv("TEST_TTL", "bogus")
	require.Equal(t, time.Hour, envOrDefaultDuration("TEST_TTL", time.Hour))
}
