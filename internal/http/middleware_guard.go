package httpx

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/route"
)

// Guarder decides navigations.
type Guarder interface {
	Decide(ctx context.Context, path string) (route.Route, route.Decision, error)
	Admit(ctx context.Context, path string) (route.Route, route.Decision, error)
}

// GuardOptions configures the Guard middleware.
type GuardOptions struct {
	Guard      Guarder
	SignInPath string
	// Bypass lists exact paths served without a decision, such as /metrics.
	Bypass []string
}

type routeKey struct{}

// RouteFromContext returns the route admitted for the request.
func RouteFromContext(ctx context.Context) (route.Route, bool) {
	rt, ok := ctx.Value(routeKey{}).(route.Route)
	return rt, ok
}

// Guard returns a middleware that admits, redirects or hides each request
// according to the route table. Browser page loads are recorded as
// navigations; other requests are only decided.
func Guard(opts GuardOptions) func(http.Handler) http.Handler {
	signIn := opts.SignInPath
	if signIn == "" {
		signIn = "/sign-in"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(opts.Bypass, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			decide := opts.Guard.Decide
			if r.Method == http.MethodGet && IsBrowserRequest(r) {
				decide = opts.Guard.Admit
			}
			rt, d, err := decide(r.Context(), r.URL.Path)
			if err != nil {
				status := http.StatusServiceUnavailable
				if errors.Is(err, context.Canceled) {
					status = statusClientClosedRequest
				}
				WriteError(w, ErrorParams{Code: status, ErrCode: "identity_pending", Err: err})
				return
			}

			switch d.Outcome {
			case route.Admit:
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeKey{}, rt)))
			case route.Redirect:
				if IsBrowserRequest(r) {
					redirectTo(w, r, d.Target)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
			default:
				// Role mismatches and unknown paths look the same: nothing here.
				WriteError(w, ErrorParams{
					Code:    http.StatusNotFound,
					ErrCode: "not_found",
					Err:     errors.New(http.StatusText(http.StatusNotFound)),
				})
			}
		})
	}
}

// statusClientClosedRequest is the nginx convention for a caller that went away.
const statusClientClosedRequest = 499
