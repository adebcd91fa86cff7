package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/config"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/route"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	Session     *service.SessionService
	Auth        *service.AuthService
	Guard       *service.RouteGuard
	Feed        *service.FeedService
	Views       *service.FeedViews
	Uploads     *service.UploadService // nil when storage is not configured
	Compose     *service.ComposeService
	Suggestions *service.SuggestionService
	Admin       *service.AdminService
}

// ServiceDeps contains dependencies for creating services.
type ServiceDeps struct {
	Config   *config.AppConfig
	Adapters *Adapters
	Logger   *slog.Logger
}

// NewServices builds the services and binds the session to the gateway's
// eviction hook.
func NewServices(deps *ServiceDeps) ServiceContainer {
	cfg := deps.Config
	a := deps.Adapters
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	obs := service.Observability{Logger: logger, Metrics: a.Metrics}

	session := service.NewSessionService(service.SessionServiceOptions{
		Identity:    a.Backend,
		Credentials: a.Credentials,
		Obs:         obs,
	})
	a.BindSession(session)

	feedSvc := service.NewFeedService(service.FeedServiceOptions{
		Dreams: a.Backend,
		Users:  a.Backend,
		Config: service.FeedServiceConfig{
			Cache:    a.AuthorCache,
			CacheTTL: cfg.Feed.AuthorCacheTTL,
			Page:     ports.PageParams{Page: 1, Size: cfg.Feed.PageSize, Sort: cfg.Feed.Sort},
			Obs:      obs,
		},
	})
	views := service.NewFeedViews(service.FeedViewsOptions{
		Feed:    feedSvc,
		Session: session,
		Config: service.FeedViewsConfig{
			IdleTimeout: cfg.Feed.ViewIdleTTL,
			Polls: service.PollIntervals{
				Primary: cfg.Feed.PrimaryPoll,
				Query:   cfg.Feed.SearchPoll,
				Post:    cfg.Feed.PostPoll,
			},
			Gauge:  a.Metrics,
			Logger: logger,
		},
	})

	var uploads *service.UploadService
	if a.Storage != nil && a.StorageAuth != nil {
		uploads = service.NewUploadService(service.UploadServiceOptions{
			Storage: a.Storage,
			Auth:    a.StorageAuth,
			Config:  service.UploadServiceConfig{Recorder: a.Metrics, Obs: obs},
		})
	}

	return ServiceContainer{
		Session: session,
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Identity: a.Backend,
			Session:  session,
			Config: service.AuthServiceConfig{
				Navigator: a.History,
				Routes:    service.AuthRoutes{SignIn: cfg.HTTP.SignInPath, Home: "/"},
				Obs:       obs,
			},
		}),
		Guard: service.NewRouteGuard(service.RouteGuardOptions{
			Routes:  route.DefaultTable(cfg.HTTP.SignInPath),
			Session: session,
			Config: service.RouteGuardConfig{
				Navigator:  a.History,
				SignInPath: cfg.HTTP.SignInPath,
				Logger:     logger,
			},
		}),
		Feed:    feedSvc,
		Views:   views,
		Uploads: uploads,
		Compose: service.NewComposeService(service.ComposeServiceOptions{
			Dreams:  a.Backend,
			Session: session,
			Config: service.ComposeServiceConfig{
				Uploads: uploads,
				Views:   views,
				Folder:  cfg.Drive.FolderName,
				Obs:     obs,
			},
		}),
		Suggestions: service.NewSuggestionService(service.SuggestionServiceOptions{
			Users:   a.Backend,
			Session: session,
			Obs:     obs,
		}),
		Admin: service.NewAdminService(service.AdminServiceOptions{Users: a.Backend, Obs: obs}),
	}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Adapters *Adapters
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// backgroundService describes a startable background component.
type backgroundService struct {
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	name string
	done <-chan struct{}
}

func launchBackground(ctx context.Context, logger *slog.Logger, errCh chan<- error, svc backgroundService) backgroundServiceHandle {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", svc.name, err)
			select {
			case errCh <- errMsg:
			case <-ctx.Done():
			default:
				logger.WarnContext(ctx, "dropping background service error", "service", svc.name, "error", errMsg)
			}
		}
	}()
	logger.InfoContext(ctx, "background service started", "service", svc.name)
	return backgroundServiceHandle{name: svc.name, done: done}
}

func buildBackgroundServices(services ServiceContainer, logger *slog.Logger) []backgroundService {
	return []backgroundService{
		{
			name: "feed view sweeper",
			start: func(ctx context.Context) error {
				services.Views.Run(ctx)
				return nil
			},
		},
		{
			// An unreachable backend leaves the visitor signed out; it is not fatal.
			name: "session resolver",
			start: func(ctx context.Context) error {
				stored := services.Session.Authenticated(ctx)
				id, err := services.Session.Resolve(ctx)
				if err != nil {
					if stored {
						logger.WarnContext(ctx, "stored credential rejected", "error", err)
					}
					return nil
				}
				if !id.IsZero() {
					logger.InfoContext(ctx, "session restored", "user_id", id.UserID, "role", id.Role)
				}
				return nil
			},
		},
	}
}

// RunServicesWithShutdown starts the HTTP server and background services and
// blocks until ctx ends, a termination signal arrives or a service fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	serviceCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	errCh := make(chan error, 2)
	backgrounds := make([]backgroundServiceHandle, 0, 2)
	for _, svc := range buildBackgroundServices(cfg.Services, logger) {
		backgrounds = append(backgrounds, launchBackground(serviceCtx, logger, errCh, svc))
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Metrics:  metricsFrom(cfg.Adapters),
		Logger:   logger,
		ErrCh:    errCh,
	})

	return waitForShutdown(shutdownConfig{
		ctx:         serviceCtx,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  server,
		timeout:     cfg.Config.HTTP.ShutdownTimeout,
		logger:      logger,
		backgrounds: backgrounds,
	})
}

type shutdownConfig struct {
	ctx         context.Context
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	timeout     time.Duration
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
}

// waitForShutdown waits for the context to end or a service to fail.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.ctx.Done():
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

func gracefulStop(cfg shutdownConfig) error {
	// The service context is already canceled; shutdown gets its own deadline.
	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  cfg.httpServer,
		Timeout: cfg.timeout,
		Logger:  cfg.logger,
	}); err != nil {
		return err
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}
	return nil
}

func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
