package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/config"
	httpx "github.com/dreamsdoc/dreamsdoc-web/internal/http"
	"github.com/dreamsdoc/dreamsdoc-web/internal/observability/metrics"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Metrics  *metrics.Registry // Optional
	Logger   *slog.Logger
	// ErrCh receives a listen failure. Without it the failure is only logged.
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(routerServices(appCfg, cfg.Services, cfg.Metrics, logger))
	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.ErrCh)
}

func routerServices(cfg *config.AppConfig, svcs ServiceContainer, reg *metrics.Registry, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		Session:         svcs.Session,
		Auth:            svcs.Auth,
		Guard:           svcs.Guard,
		Views:           svcs.Views,
		Compose:         svcs.Compose,
		Suggestions:     svcs.Suggestions,
		Admin:           svcs.Admin,
		SignInPath:      cfg.HTTP.SignInPath,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		MaxUploadBytes:  cfg.HTTP.MaxUploadBytes,
		SuggestionLimit: cfg.Feed.SuggestionLimit,
		Logger:          logger,
	}
	if reg != nil {
		rs.Observer = reg
		if cfg.Observability.MetricsEnabled {
			rs.MetricsHandler = reg.Handler()
			rs.MetricsPath = cfg.Observability.MetricsPath
		}
	}
	return rs
}

func metricsFrom(a *Adapters) *metrics.Registry {
	if a == nil {
		return nil
	}
	return a.Metrics
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on every interface
	if addr == "" {
		addr = "127.0.0.1:3000"
	}

	// No WriteTimeout: feed streams hold the connection open.
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- fmt.Errorf("http server: %w", err):
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration // defaults to 10s
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
