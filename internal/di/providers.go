package di

import (
	"fmt"

	"SectorPulse/internal/domain/repository"
	"SectorPulse/internal/handler/api"
	"SectorPulse/internal/handler/web"
	"SectorPulse/internal/handler/ws"
	internalrepo "SectorPulse/internal/repository"
	"SectorPulse/internal/service/ratelimit"
	"SectorPulse/internal/usecase"
	"SectorPulse/pkg/config"
	xhttp "SectorPulse/pkg/http"
	"SectorPulse/pkg/http/middleware"
	applogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/metrics"
	"SectorPulse/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry with runtime collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideHTTPClient creates the outbound client used for the dataset download.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Source.Timeout),
		xhttp.WithUserAgent(cfg.Source.UserAgent),
	)
}

// ProvidePostingSource creates the CSV-over-HTTP source.
func ProvidePostingSource(client *xhttp.Client, m repository.Metrics, l *applogger.Logger, cfg *config.Config) repository.PostingSource {
	src := internalrepo.NewHTTPPostingSource(client, cfg.Source.URL, m)
	src.SetLogger(l)
	return src
}

// ProvideSectorAggregator creates the per-sector volatility aggregator.
func ProvideSectorAggregator(cfg *config.Config) *usecase.SectorAggregator {
	return usecase.NewSectorAggregator(cfg.Volatility.Window, cfg.Volatility.RankSize)
}

// ProvideViewRenderer creates the view renderer.
func ProvideViewRenderer(loader *usecase.DatasetLoader, agg *usecase.SectorAggregator, m repository.Metrics, cfg *config.Config) *usecase.ViewRenderer {
	return usecase.NewViewRenderer(loader, agg, cfg.Volatility.RollingScope, m)
}

// ProvideDashboardHandler creates the echo handler for page, API and sessions.
func ProvideDashboardHandler(
	l *applogger.Logger,
	loader *usecase.DatasetLoader,
	renderer *usecase.ViewRenderer,
	m repository.Metrics,
	cfg *config.Config,
) *api.DashboardEchoHandler {
	h := api.NewDashboardEchoHandler(l, loader, renderer, m, ws.Options{
		EventsPerSecond: cfg.Session.EventsPerSecond,
		Burst:           cfg.Session.Burst,
		WriteTimeout:    cfg.Session.WriteTimeout,
	})
	h.SetAPILimiter(ratelimit.New(cfg.Server.APIRate, cfg.Server.APIBurst))
	return h
}

// ProvideHTTPServer creates the echo server with routes, templates and metrics.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	dashboard *api.DashboardEchoHandler,
	tmpl *web.Renderer,
	reg *prometheus.Registry,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithRenderer(tmpl),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(
			cfg.Metrics.Path,
			promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			middleware.NewHTTPMetrics(reg),
			cfg.Server.SlowThreshold,
		))
	}
	return xhttp.NewServer(dashboard, l, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	renderer *usecase.ViewRenderer,
	dashboard *api.DashboardEchoHandler,
	srv *xhttp.Server,
) *server.App {
	return server.New(cfg, l, renderer, dashboard, srv)
}
