package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

// dashboardHandler serves the page; its selectors are built from the loaded
// dataset once per request.
func dashboardHandler(analytics *services.Analytics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		props := templates.DashboardProps{Categories: analytics.Categories()}
		props.Span, props.HasSpan = analytics.Dataset().Span()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(props).Render(ctx, w); err != nil {
			logger.Error("render dashboard", "error", err, "request_id", observability.GetRequestID(ctx))
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func loadAnalytics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services.Analytics, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Data.LoadTimeout)
	defer cancel()

	start := time.Now()
	dataset, err := services.LoadDataset(ctx, cfg.Data.CSVFile)
	if err != nil {
		return nil, err
	}
	logger.Info("CSV data loaded successfully",
		"path", cfg.Data.CSVFile,
		"records", dataset.Len(),
		"categories", len(dataset.Categories()),
		"duration", time.Since(start),
	)

	opts := []services.Option{services.WithLogger(logger)}
	if cfg.Cache.Enabled {
		opts = append(opts, services.WithResultCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval))
	}
	return services.NewAnalytics(dataset, opts...), nil
}

func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger) http.Handler {
	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics, logger),
	}

	srv := server.NewServer(analytics, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"csv_file", cfg.Data.CSVFile,
		"cache_enabled", cfg.Cache.Enabled,
	)

	analytics, err := loadAnalytics(context.Background(), cfg, logger)
	if err != nil {
		var loadErr *services.LoadError
		if stderrors.As(err, &loadErr) {
			logger.Error("failed to load CSV data",
				"path", loadErr.Path,
				"line", loadErr.Line,
				"column", loadErr.Column,
				"error", loadErr.Err,
			)
		} else {
			logger.Error("failed to load CSV data", "error", err)
		}
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service", "stats", analytics.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
