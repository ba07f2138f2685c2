package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedspoon/tableside/config"
)

func TestLoadClientDefaults(t *testing.T) {
	t.Setenv("TABLESIDE_API_URL", "")
	t.Setenv("TABLESIDE_DATA_DIR", t.TempDir())

	cfg, err := config.LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadClientOverrides(t *testing.T) {
	t.Setenv("TABLESIDE_API_URL", "https://api.gildedspoon.com")
	t.Setenv("TABLESIDE_LOG_LEVEL", "debug")
	t.Setenv("TABLESIDE_DATA_DIR", "/tmp/tableside-test")

	cfg, err := config.LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "https://api.gildedspoon.com", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/tableside-test", cfg.DataDir)
}

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := config.LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8000", cfg.Addr())
	assert.Equal(t, 60, cfg.TokenTTLMinutes)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.Seed)
}

func TestLoadServerBadIntFallsBack(t *testing.T) {
	t.Setenv("TABLESIDE_TOKEN_TTL_MINUTES", "not-a-number")

	cfg, err := config.LoadServer()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.TokenTTLMinutes)
}
