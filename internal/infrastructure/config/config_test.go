package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyposcaler-bot/prun-mcp/internal/infrastructure/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "https://rest.fnar.net", cfg.FIO.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.FIO.Timeout)
	assert.Equal(t, 5, cfg.FIO.Retry.MaxAttempts)
	assert.Equal(t, "cache", cfg.Cache.Dir)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "prun-mcp.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadConfig_FromFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
fio:
  base_url: https://fio.example.test
cache:
  dir: /tmp/prun-cache
  ttl: 1h
database:
  type: sqlite
  path: /tmp/plans.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Act
	cfg, err := config.LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://fio.example.test", cfg.FIO.BaseURL)
	assert.Equal(t, "/tmp/prun-cache", cfg.Cache.Dir)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "/tmp/plans.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields still get defaults
	assert.Equal(t, 5, cfg.FIO.Retry.MaxAttempts)
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644))

	_, err := config.LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
