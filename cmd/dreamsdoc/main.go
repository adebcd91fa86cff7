package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dreamsdoc/dreamsdoc-web/config"
	"github.com/dreamsdoc/dreamsdoc-web/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	cfgPtr := &cfg
	logger = bootstrap.ConfigureLogger(os.Stdout, cfgPtr)

	logStartupInfo(ctx, logger, cfgPtr)

	adapters, err := bootstrap.NewAdapters(ctx, bootstrap.AdapterDeps{Config: cfgPtr, Logger: logger})
	if err != nil {
		return fmt.Errorf("init adapters: %w", err)
	}
	defer func() {
		if cerr := adapters.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:   cfgPtr,
		Adapters: adapters,
		Logger:   logger,
	})

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   cfgPtr,
		Services: services,
		Adapters: adapters,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting dreamsdoc web",
		"addr", cfg.HTTP.Addr,
		"backend", cfg.Backend.BaseURL,
		"credential_store", cfg.Credential.Store,
		"author_cache", cfg.Feed.AuthorCache,
		"uploads_enabled", cfg.Drive.Configured(),
		"dev", cfg.IsDev,
	)
}
