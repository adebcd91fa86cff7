package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// expiryMargin is subtracted from the provider expiry before caching.
const expiryMargin = time.Minute

// AuthenticatorConfig holds OAuth2 client settings for the storage provider.
type AuthenticatorConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	Scopes       []string
	// TTL caps how long a token is cached.
	TTL        time.Duration
	HTTPClient *http.Client // Optional, defaults to a 30s client
}

// Authenticator mints provider tokens from a refresh token and caches them.
type Authenticator struct {
	config       *oauth2.Config
	refreshToken string
	ttl          time.Duration
	httpClient   *http.Client
	cache        ports.TokenCache
	provider     *gooidc.Provider
	logger       *slog.Logger
	group        singleflight.Group
}

var _ ports.StorageAuthenticator = (*Authenticator)(nil)

// NewAuthenticator creates an Authenticator. provider is optional; when set,
// fresh tokens are checked against its userinfo endpoint before caching.
func NewAuthenticator(cfg AuthenticatorConfig, cache ports.TokenCache, provider *gooidc.Provider, logger *slog.Logger) (*Authenticator, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.RefreshToken == "" {
		return nil, errors.New("refresh token is required")
	}
	if cfg.TokenURL == "" {
		return nil, errors.New("token URL is required")
	}
	if cache == nil {
		return nil, errors.New("token cache is required")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 50 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL},
		},
		refreshToken: cfg.RefreshToken,
		ttl:          ttl,
		httpClient:   hc,
		cache:        cache,
		provider:     provider,
		logger:       logger.With("component", "drive_auth"),
	}, nil
}

// DiscoverProvider runs OIDC discovery against issuer.
func DiscoverProvider(ctx context.Context, issuer string, hc *http.Client) (*gooidc.Provider, error) {
	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}
	p, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	return p, nil
}

// Token returns the cached token or mints a new one. Concurrent misses share
// one refresh.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	if tok, ok, err := a.cache.Get(ctx); err != nil {
		a.logger.WarnContext(ctx, "token cache read failed", "error", err)
	} else if ok {
		return tok, nil
	}

	v, err, _ := a.group.Do("token", func() (any, error) {
		return a.mint(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (a *Authenticator) mint(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: a.refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("refresh provider token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("refresh provider token: empty access token")
	}

	if a.provider != nil {
		ui, uiErr := a.provider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
		if uiErr != nil {
			return "", fmt.Errorf("verify provider token: %w", uiErr)
		}
		a.logger.DebugContext(ctx, "provider token verified", "subject", ui.Subject)
	}

	ttl := a.ttl
	if !tok.Expiry.IsZero() {
		ttl = min(ttl, time.Until(tok.Expiry)-expiryMargin)
	}
	if ttl > 0 {
		if err := a.cache.Set(ctx, tok.AccessToken, ttl); err != nil {
			a.logger.WarnContext(ctx, "token cache write failed", "error", err)
		}
	}
	return tok.AccessToken, nil
}

// Evict drops the cached token.
func (a *Authenticator) Evict(ctx context.Context) error {
	if err := a.cache.Delete(ctx); err != nil {
		return fmt.Errorf("evict provider token: %w", err)
	}
	return nil
}
