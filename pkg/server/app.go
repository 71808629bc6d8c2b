package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"SectorPulse/internal/handler/api"
	"SectorPulse/internal/usecase"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	applogger "SectorPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	renderer   *usecase.ViewRenderer
	dashboard  *api.DashboardEchoHandler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	renderer *usecase.ViewRenderer,
	dashboard *api.DashboardEchoHandler,
	httpServer *xhttp.Server,
) *App {
	return &App{
		cfg:        cfg,
		l:          l,
		renderer:   renderer,
		dashboard:  dashboard,
		httpServer: httpServer,
	}
}

// Run loads the dataset (when preloading), serves until SIGINT/SIGTERM or a
// listen failure, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Source.Preload {
		if err := a.Preload(ctx); err != nil {
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case err := <-a.httpServer.Errors():
		runErr = fmt.Errorf("http server: %w", err)
	}

	a.shutdown()
	return runErr
}

// Preload fetches the dataset and computes the selection-independent results
// before any request arrives.
func (a *App) Preload(ctx context.Context) error {
	start := time.Now()
	res, err := a.renderer.Analysis(ctx)
	if err != nil {
		a.l.Error("dataset preload failed", applogger.String("url", a.cfg.Source.URL), applogger.Error(err))
		return fmt.Errorf("preload dataset: %w", err)
	}
	a.l.Info("dataset ready",
		applogger.Int("rows", len(res.Dataset.Records)),
		applogger.Int("sectors", len(res.Dataset.Sectors)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	a.l.Info("shutting down")

	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	// Hijacked websocket connections are not covered by the HTTP shutdown.
	a.dashboard.Close()

	a.l.Info("shutdown complete")
}
