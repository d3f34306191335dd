package app

import (
	"fmt"

	"go.uber.org/zap"

	"audioscribe/internal/app/assemblyai"
	"audioscribe/internal/app/history"
	"audioscribe/internal/app/history/pg"
	"audioscribe/internal/app/history/sqlite"
	"audioscribe/internal/app/secret"
	"audioscribe/internal/config"
)

// ProvideSecretStore builds the credential store rooted in the data dir.
func ProvideSecretStore(cfg *config.Config) secret.Store {
	return secret.NewFileStore(cfg.APIKeyPath())
}

// ProvideRepository selects the history backing store from configuration.
func ProvideRepository(cfg *config.Config, logger *zap.Logger) (history.Repository, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return history.NewFileRepository(cfg.HistoryFilePath(), cfg.Store.Capacity, logger), nil
	case config.BackendSQLite:
		return sqlite.NewSQLiteRepository(cfg.SQLitePath(), cfg.Store.Capacity)
	case config.BackendPostgres:
		return pg.NewPostgresRepository(cfg.Store.PostgresURL, cfg.Store.Capacity)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// ProvideClient builds the transcription provider client.
func ProvideClient(cfg *config.Config, secrets secret.Store, logger *zap.Logger) *assemblyai.Client {
	return assemblyai.NewClient(cfg.Provider.BaseURL, secrets, logger)
}

// ProvidePoller builds a poller with the configured interval and bound.
func ProvidePoller(cfg *config.Config, client *assemblyai.Client) *assemblyai.Poller {
	poller := assemblyai.NewPoller(client)
	if cfg.Provider.PollInterval > 0 {
		poller.Interval = cfg.Provider.PollInterval
	}
	if cfg.Provider.PollMaxAttempts > 0 {
		poller.MaxAttempts = cfg.Provider.PollMaxAttempts
	}
	return poller
}

// NewLogger builds the application logger. Development mode enables
// human-readable console output.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// MustNewLogger is NewLogger with a panic on failure, for main().
func MustNewLogger(development bool) *zap.Logger {
	logger, err := NewLogger(development)
	if err != nil {
		panic(err)
	}
	return logger
}
