//go:build wireinject
// +build wireinject

package di

import (
	"SectorPulse/internal/handler/web"
	"SectorPulse/internal/usecase"
	"SectorPulse/pkg/config"
	"SectorPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Data source
		ProvideHTTPClient,
		ProvidePostingSource,

		// Use cases
		usecase.NewDatasetLoader,
		ProvideSectorAggregator,
		ProvideViewRenderer,

		// Presentation
		web.NewRenderer,
		ProvideDashboardHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
