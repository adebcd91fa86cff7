package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/config"
	"github.com/dreamsdoc/dreamsdoc-web/internal/bootstrap"
	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultCommandTimeout = time.Minute

var errSignedOut = errors.New("not signed in; run dreamsdoc-cli login first")

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	// Keep stdout for command output.
	logger = bootstrap.ConfigureLogger(os.Stderr, &cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
	}
	runErr := cmd.run(cmdCtx, os.Args[2:])
	stop()
	if runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and store the credential",
			run:         runLogin,
		},
		"signup": {
			name:        "signup",
			description: "Register a new account",
			run:         runSignUp,
		},
		"logout": {
			name:        "logout",
			description: "Forget the stored credential",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Resolve and print the signed-in identity",
			run:         runWhoAmI,
		},
		"feed": {
			name:        "feed",
			description: "Print a feed (global, user, post, search or hashtag)",
			run:         runFeed,
		},
		"post": {
			name:        "post",
			description: "Create a post, uploading any media files first",
			run:         runPost,
		},
		"delete": {
			name:        "delete",
			description: "Delete one of your posts",
			run:         runDelete,
		},
		"suggest": {
			name:        "suggest",
			description: "List users you might follow",
			run:         runSuggest,
		},
		"users": {
			name:        "users",
			description: "List registered users (admin)",
			run:         runUsers,
		},
		"activate": {
			name:        "activate",
			description: "Toggle a user's activation (admin)",
			run:         runActivate,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: dreamsdoc-cli <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(os.Stdout, "  %-10s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

// withServices builds the adapters and services for one command run.
func withServices(cmdCtx *commandContext, fn func(ctx context.Context, svcs bootstrap.ServiceContainer) error) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	adapters, err := bootstrap.NewAdapters(ctx, bootstrap.AdapterDeps{Config: &cmdCtx.Config, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := adapters.Close(); cerr != nil {
			cmdCtx.Logger.Warn("close redis failed", "error", cerr)
		}
	}()

	svcs := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:   &cmdCtx.Config,
		Adapters: adapters,
		Logger:   cmdCtx.Logger,
	})
	defer svcs.Views.Close()
	return fn(ctx, svcs)
}

// requireIdentity resolves the stored credential.
func requireIdentity(ctx context.Context, svcs bootstrap.ServiceContainer) (domainauth.Identity, error) {
	if !svcs.Session.Authenticated(ctx) {
		return domainauth.Identity{}, errSignedOut
	}
	id, err := svcs.Session.Resolve(ctx)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("resolve session: %w", err)
	}
	if id.IsZero() {
		return domainauth.Identity{}, errSignedOut
	}
	return id, nil
}
