package app

import (
	"log/slog"

	"github.com/trebuchet-org/deployer/internal/domain/config"
	"github.com/trebuchet-org/deployer/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config   *config.RuntimeConfig
	Logger   *slog.Logger
	Progress usecase.ProgressSink

	// Use cases
	DeployContract  *usecase.DeployContract
	ListDeployments *usecase.ListDeployments
	ListNetworks    *usecase.ListNetworks
	PruneRegistry   *usecase.PruneRegistry
	ShowConfig      *usecase.ShowConfig
	SetConfig       *usecase.SetConfig
	RemoveConfig    *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	progress usecase.ProgressSink,
	deployContract *usecase.DeployContract,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
	pruneRegistry *usecase.PruneRegistry,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) *App {
	return &App{
		Config:          cfg,
		Logger:          logger,
		Progress:        progress,
		DeployContract:  deployContract,
		ListDeployments: listDeployments,
		ListNetworks:    listNetworks,
		PruneRegistry:   pruneRegistry,
		ShowConfig:      showConfig,
		SetConfig:       setConfig,
		RemoveConfig:    removeConfig,
	}
}
