package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	Environment  string        `yaml:"environment"`
}

// StoreConfig selects and parameterizes the history backing store.
type StoreConfig struct {
	// Backend is one of file, sqlite, postgres.
	Backend string `yaml:"backend"`
	// DataDir holds the history document, the SQLite database and the
	// credential file. Created on demand.
	DataDir string `yaml:"data_dir"`
	// Capacity caps the history collection.
	Capacity int `yaml:"capacity"`
	// PostgresURL is the connection string for the postgres backend.
	PostgresURL string `yaml:"postgres_url"`
}

// ProviderConfig parameterizes the transcription provider client.
type ProviderConfig struct {
	BaseURL         string        `yaml:"base_url"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	PollMaxAttempts int           `yaml:"poll_max_attempts"`
}

// Config is the full application configuration. Values come from an
// optional YAML file, overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Provider ProviderConfig `yaml:"provider"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "5005",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
			Environment:  "development",
		},
		Store: StoreConfig{
			Backend:  BackendFile,
			DataDir:  "data",
			Capacity: 5,
		},
		Provider: ProviderConfig{
			PollInterval:    3 * time.Second,
			PollMaxAttempts: 600,
		},
	}
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.Environment = getEnvOrDefault("APP_ENV", c.Server.Environment)
	c.Store.Backend = getEnvOrDefault("STORE_BACKEND", c.Store.Backend)
	c.Store.DataDir = getEnvOrDefault("DATA_DIR", c.Store.DataDir)
	c.Store.PostgresURL = getEnvOrDefault("DATABASE_URL", c.Store.PostgresURL)
	c.Provider.BaseURL = getEnvOrDefault("ASSEMBLYAI_BASE_URL", c.Provider.BaseURL)
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("postgres backend requires DATABASE_URL or store.postgres_url")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Capacity <= 0 {
		return fmt.Errorf("store capacity must be positive, got %d", c.Store.Capacity)
	}
	return nil
}

// HistoryFilePath is the JSON document location for the file backend.
func (c *Config) HistoryFilePath() string {
	return filepath.Join(c.Store.DataDir, "history.json")
}

// SQLitePath is the database file location for the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Store.DataDir, "history.db")
}

// APIKeyPath is the credential document location.
func (c *Config) APIKeyPath() string {
	return filepath.Join(c.Store.DataDir, "config", "api-key.json")
}
