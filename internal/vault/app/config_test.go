package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	require.Equal(t, "otpvault.db", cfg.DatabaseFile)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OTPVAULT_DATABASE_FILE", "/tmp/vault.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := LoadConfig()
	require.Equal(t, "/tmp/vault.db", cfg.DatabaseFile)
	require.Equal(t, "debug", cfg.LogLevel)
}
