package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/redis/go-redis/v9"

	"github.com/dreamsdoc/dreamsdoc-web/config"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/authroles"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/backend"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/drive"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/filestore"
	"github.com/dreamsdoc/dreamsdoc-web/internal/adapters/memory"
	redisadapter "github.com/dreamsdoc/dreamsdoc-web/internal/adapters/redis"
	"github.com/dreamsdoc/dreamsdoc-web/internal/navigation"
	"github.com/dreamsdoc/dreamsdoc-web/internal/observability/metrics"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// Adapters holds the infrastructure every service is built on.
type Adapters struct {
	// Redis is nil unless a component is configured to use it.
	Redis       redis.UniversalClient
	Credentials ports.CredentialStore
	AuthorCache ports.AuthorCache
	TokenCache  ports.TokenCache
	History     *navigation.History
	Metrics     *metrics.Registry
	Gateway     *backend.Gateway
	Backend     *backend.Client

	// Storage and StorageAuth are nil when the storage provider is not configured.
	Storage     ports.ObjectStorage
	StorageAuth ports.StorageAuthenticator

	session atomic.Pointer[service.SessionService]
}

// AdapterDeps groups the inputs of NewAdapters.
type AdapterDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// Redis overrides ConnectRedis, for tests.
	Redis redis.UniversalClient
	// Base overrides the transport under the gateway.
	Base http.RoundTripper
}

// NewAdapters connects and builds every adapter selected by the configuration.
func NewAdapters(ctx context.Context, deps AdapterDeps) (*Adapters, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapters{
		Redis:   deps.Redis,
		History: navigation.NewHistory("/"),
		Metrics: metrics.NewRegistry(),
	}
	if a.Redis == nil && cfg.UsesRedis() {
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.Redis = client
	}

	a.Credentials = newCredentialStore(cfg.Credential, a.Redis)
	a.AuthorCache = newAuthorCache(cfg.Feed, cfg.Credential.KeyPrefix, a.Redis)
	a.TokenCache = newTokenCache(cfg.Credential.KeyPrefix, a.Redis)

	a.Gateway = backend.NewGateway(backend.GatewayOptions{
		Base:       deps.Base,
		Store:      a.Credentials,
		Navigator:  a.History,
		SignInPath: cfg.HTTP.SignInPath,
		Logger:     logger,
		Metrics:    a.Metrics,
		OnEvict:    a.onEvict,
	})
	client, err := backend.NewClient(backend.ClientOptions{
		BaseURL:    cfg.Backend.BaseURL,
		HTTPClient: &http.Client{Transport: a.Gateway, Timeout: cfg.Backend.Timeout},
		Roles: authroles.StaticRoleMapper{
			AdminRoles: cfg.Backend.AdminRoles,
			UserRoles:  cfg.Backend.UserRoles,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	a.Backend = client

	if err := a.initStorage(ctx, cfg.Drive, logger); err != nil {
		return nil, err
	}
	return a, nil
}

// BindSession points the gateway's eviction hook at the session. The session
// depends on the backend client, so it is bound after construction.
func (a *Adapters) BindSession(s *service.SessionService) {
	a.session.Store(s)
}

func (a *Adapters) onEvict(ctx context.Context) {
	if s := a.session.Load(); s != nil {
		s.Evicted(ctx)
	}
}

// Close releases the Redis connection if one was opened.
func (a *Adapters) Close() error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Close()
}

func (a *Adapters) initStorage(ctx context.Context, cfg config.DriveConfig, logger *slog.Logger) error {
	if !cfg.Configured() {
		logger.InfoContext(ctx, "storage provider not configured; media uploads disabled")
		return nil
	}
	hc := &http.Client{Timeout: cfg.Timeout}

	var provider *gooidc.Provider
	if cfg.VerifyToken {
		p, err := drive.DiscoverProvider(ctx, cfg.IssuerURL, hc)
		if err != nil {
			return fmt.Errorf("discover storage identity provider: %w", err)
		}
		provider = p
	}

	auth, err := drive.NewAuthenticator(drive.AuthenticatorConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
		TTL:          cfg.TokenTTL,
		HTTPClient:   hc,
	}, a.TokenCache, provider, logger)
	if err != nil {
		return fmt.Errorf("create storage authenticator: %w", err)
	}
	storage, err := drive.NewClient(drive.ClientOptions{
		APIBaseURL: cfg.APIBaseURL,
		HTTPClient: hc,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	a.StorageAuth = auth
	a.Storage = storage
	return nil
}

//nolint:ireturn // the store kind is chosen at runtime.
func newCredentialStore(cfg config.CredentialConfig, client redis.UniversalClient) ports.CredentialStore {
	if cfg.Store == config.CredentialStoreRedis && client != nil {
		return redisadapter.NewCredentialStore(client, cfg.KeyPrefix)
	}
	return filestore.NewCredentialStore(cfg.FilePath)
}

//nolint:ireturn // the cache kind is chosen at runtime.
func newAuthorCache(cfg config.FeedConfig, prefix string, client redis.UniversalClient) ports.AuthorCache {
	if cfg.AuthorCache == config.AuthorCacheRedis && client != nil {
		return redisadapter.NewAuthorCache(client, prefix)
	}
	return memory.NewAuthorCache()
}

// newTokenCache shares storage tokens across processes whenever Redis is up.
//
//nolint:ireturn // the cache kind is chosen at runtime.
func newTokenCache(prefix string, client redis.UniversalClient) ports.TokenCache {
	if client != nil {
		return redisadapter.NewTokenCache(client, prefix)
	}
	return memory.NewTokenCache()
}
