//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"audioscribe/internal/api/server"
	"audioscribe/internal/config"
)

// InitializeServer assembles the API server from configuration.
func InitializeServer(cfg *config.Config, logger *zap.Logger) (*server.Server, error) {
	wire.Build(
		ProvideSecretStore,
		ProvideRepository,
		ProvideClient,
		server.NewServer,
	)
	return nil, nil
}
