//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/deployer/internal/adapters"
	"github.com/trebuchet-org/deployer/internal/config"
	"github.com/trebuchet-org/deployer/internal/logging"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// InitApp creates a fully wired App instance. The cleanup func closes the RPC connection.
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		// Config
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewListDeployments,
		usecase.NewListNetworks,
		usecase.NewPruneRegistry,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil, nil
}
