package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/route"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// RouteGuardOptions groups dependencies for RouteGuard.
type RouteGuardOptions struct {
	Routes  *route.Table    // Required
	Session *SessionService // Required
	Config  RouteGuardConfig
}

// RouteGuardConfig holds optional RouteGuard settings.
type RouteGuardConfig struct {
	Navigator  ports.Navigator
	SignInPath string
	Logger     *slog.Logger
}

// RouteGuard admits or redirects navigations based on the route table and
// the session state.
type RouteGuard struct {
	routes  *route.Table
	session *SessionService
	nav     ports.Navigator
	signIn  string
	logger  *slog.Logger
}

// NewRouteGuard constructs a RouteGuard.
func NewRouteGuard(opts RouteGuardOptions) *RouteGuard {
	if opts.Routes == nil {
		panic("route table is required")
	}
	if opts.Session == nil {
		panic("SessionService is required")
	}
	signIn := opts.Config.SignInPath
	if signIn == "" {
		signIn = "/sign-in"
	}
	return &RouteGuard{
		routes:  opts.Routes,
		session: opts.Session,
		nav:     opts.Config.Navigator,
		signIn:  signIn,
		logger:  Observability{Logger: opts.Config.Logger}.logger("route_guard"),
	}
}

// Check evaluates path without waiting. Role routes report Pending while the
// identity is resolving. Unknown paths are denied.
func (g *RouteGuard) Check(ctx context.Context, path string) (route.Route, route.Decision) {
	rt, ok := g.routes.Match(path)
	if !ok {
		return route.Route{}, route.Decision{Outcome: route.Deny}
	}
	return rt, g.evaluate(ctx, rt)
}

// Decide is Check, but waits for identity resolution before deciding a role route.
func (g *RouteGuard) Decide(ctx context.Context, path string) (route.Route, route.Decision, error) {
	rt, d := g.Check(ctx, path)
	if d.Outcome != route.Pending {
		return rt, d, nil
	}
	if _, err := g.session.WaitResolved(ctx); err != nil {
		return rt, d, fmt.Errorf("wait for identity: %w", err)
	}
	return rt, g.evaluate(ctx, rt), nil
}

// Admit decides a navigation and records it: admitted paths are pushed,
// redirects replace the current entry.
func (g *RouteGuard) Admit(ctx context.Context, path string) (route.Route, route.Decision, error) {
	rt, d, err := g.Decide(ctx, path)
	if err != nil {
		return rt, d, err
	}
	switch d.Outcome {
	case route.Admit:
		if g.nav != nil {
			g.nav.Push(path)
		}
	case route.Redirect:
		g.logger.DebugContext(ctx, "navigation redirected", "path", path, "target", d.Target)
		if g.nav != nil {
			if d.Replace {
				g.nav.Replace(d.Target)
			} else {
				g.nav.Push(d.Target)
			}
		}
	case route.Deny:
		g.logger.DebugContext(ctx, "navigation denied", "path", path, "route", rt.Name)
	}
	return rt, d, nil
}

func (g *RouteGuard) evaluate(ctx context.Context, rt route.Route) route.Decision {
	if rt.Sensitivity == route.Public {
		return route.Decision{Outcome: route.Admit}
	}
	return route.Evaluate(rt, g.session.Authenticated(ctx), g.session.Snapshot(), g.signIn)
}
