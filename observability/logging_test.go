package observability_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gildedspoon/tableside/observability"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	logger, err := observability.NewLogger("debug", path)
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewLoggerBadLevelFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	logger, err := observability.NewLogger("shouty", path)
	require.NoError(t, err)

	logger.Debug("too quiet")
	logger.Info("loud enough")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "too quiet")
	assert.Contains(t, string(data), "loud enough")
}

func TestSessionLoggerFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")

	logger, err := observability.NewLogger("debug", path)
	require.NoError(t, err)

	adapted := observability.SessionLogger(logger)
	adapted.Info("restored session for %s", "alice")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "restored session for alice")
}
