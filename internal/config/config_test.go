package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 1500, cfg.Game.StartingCash)
	assert.Equal(t, 7, cfg.Game.GovernmentTerm)
	assert.Equal(t, 32, cfg.Game.HistoryDepth)
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.BotThinkDelay)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8090", cfg.Server.Address)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("server:\n  address: \":9999\"\nlogging:\n  level: debug\ngame:\n  starting_cash: 2000\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2000, cfg.Game.StartingCash)
	assert.Equal(t, 7, cfg.Game.GovernmentTerm, "unset keys keep defaults")
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("database:\n  enabled: true\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err, "enabled database needs a url")

	require.NoError(t, os.WriteFile(path, []byte("game:\n  government_term: 0\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
