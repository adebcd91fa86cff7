// Package backend talks to the DreamsDoc REST API. Every request goes
// through Gateway, which owns the bearer credential and the 401 policy.
package backend

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dreamsdoc/dreamsdoc-web/internal/observability/metrics"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// RequestIDHeader carries a per-request id to the backend logs.
const RequestIDHeader = "X-Request-Id"

type anonymousKey struct{}

// WithoutCredential marks a request to be sent without the stored token.
// Sign-in and sign-up use it so a 401 there reads as bad credentials.
func WithoutCredential(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// GatewayOptions groups dependencies for NewGateway.
type GatewayOptions struct {
	Base       http.RoundTripper
	Store      ports.CredentialStore
	Navigator  ports.Navigator
	SignInPath string
	Logger     *slog.Logger
	Metrics    *metrics.Registry
	// OnEvict runs after this gateway evicted the credential.
	OnEvict func(ctx context.Context)
}

// Gateway is an http.RoundTripper that attaches the stored bearer token and
// applies the process-wide 401 policy.
type Gateway struct {
	base       http.RoundTripper
	store      ports.CredentialStore
	nav        ports.Navigator
	signInPath string
	logger     *slog.Logger
	metrics    *metrics.Registry
	onEvict    func(ctx context.Context)
}

var _ http.RoundTripper = (*Gateway)(nil)

// NewGateway constructs a Gateway.
func NewGateway(opts GatewayOptions) *Gateway {
	if opts.Store == nil {
		panic("credential store is required")
	}
	if opts.Navigator == nil {
		panic("navigator is required")
	}
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	signIn := opts.SignInPath
	if signIn == "" {
		signIn = "/sign-in"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		base:       base,
		store:      opts.Store,
		nav:        opts.Navigator,
		signInPath: signIn,
		logger:     logger.With("component", "gateway"),
		metrics:    opts.Metrics,
		onEvict:    opts.OnEvict,
	}
}

// RoundTrip sends req with the credential attached. On 401 for a request that
// carried a token, the credential is evicted if it still holds that token and,
// only for the response that evicted it, navigation is replaced with sign-in.
// The response is always returned to the caller.
func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	var token string
	if !isAnonymous(ctx) {
		cred, err := g.store.Load(ctx)
		if err != nil {
			// Send unauthenticated; the backend decides.
			g.logger.WarnContext(ctx, "load credential failed", "error", err)
		} else if cred.Present() {
			token = cred.Token
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := g.base.RoundTrip(out)
	if err != nil {
		g.metrics.ObserveBackend(out.Method, 0, time.Since(start))
		return nil, err
	}
	g.metrics.ObserveBackend(out.Method, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		g.handleUnauthorized(ctx, out, token)
	}
	return resp, nil
}

func (g *Gateway) handleUnauthorized(ctx context.Context, req *http.Request, token string) {
	// Eviction must survive a caller that already gave up on the request.
	evictCtx := context.WithoutCancel(ctx)
	evicted, err := g.store.EvictIfCurrent(evictCtx, token)
	if err != nil {
		g.logger.ErrorContext(ctx, "evict credential failed",
			"error", err,
			"path", req.URL.Path,
			"request_id", req.Header.Get(RequestIDHeader),
		)
		return
	}
	if !evicted {
		return
	}

	g.metrics.CredentialEvicted()
	g.logger.InfoContext(ctx, "credential rejected; redirecting to sign-in",
		"path", req.URL.Path,
		"request_id", req.Header.Get(RequestIDHeader),
	)
	if g.onEvict != nil {
		g.onEvict(evictCtx)
	}
	g.nav.Replace(g.signInPath)
}
