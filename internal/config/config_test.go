package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "APP_ENV", "STORE_BACKEND", "DATA_DIR", "DATABASE_URL", "ASSEMBLYAI_BASE_URL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5005", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data", cfg.Store.DataDir)
	assert.Equal(t, 5, cfg.Store.Capacity)
	assert.Equal(t, 3*time.Second, cfg.Provider.PollInterval)
	assert.Equal(t, 600, cfg.Provider.PollMaxAttempts)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "8080"
  environment: production
store:
  backend: sqlite
  data_dir: /var/lib/audioscribe
  capacity: 10
provider:
  poll_interval: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, 10, cfg.Store.Capacity)
	assert.Equal(t, time.Second, cfg.Provider.PollInterval)
	// untouched sections keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/audioscribe")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8080\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "postgres://localhost/audioscribe", cfg.Store.PostgresURL)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")

	_, err := Load("")
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")

	_, err := Load("")
	assert.ErrorContains(t, err, "postgres backend requires")
}

func TestConfig_Paths(t *testing.T) {
	cfg := Default()
	cfg.Store.DataDir = "/srv/data"

	assert.Equal(t, filepath.Join("/srv/data", "history.json"), cfg.HistoryFilePath())
	assert.Equal(t, filepath.Join("/srv/data", "history.db"), cfg.SQLitePath())
	assert.Equal(t, filepath.Join("/srv/data", "config", "api-key.json"), cfg.APIKeyPath())
}
