// Package route holds the pure admission rules for navigations.
package route

import (
	"strings"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

// Sensitivity classifies how a route is protected.
type Sensitivity int

const (
	// Public routes are always admitted.
	Public Sensitivity = iota
	// Private routes need the durable authenticated flag.
	Private
	// RoleRestricted routes need a resolved identity with a given role.
	// This is a UX gate only; the backend remains the authorization boundary.
	RoleRestricted
)

func (s Sensitivity) String() string {
	switch s {
	case Public:
		return "public"
	case Private:
		return "private"
	case RoleRestricted:
		return "role"
	default:
		return "unknown"
	}
}

// Route describes a navigable view.
type Route struct {
	Name        string
	Pattern     string
	Sensitivity Sensitivity
	Role        auth.Role
}

// Outcome is the result of evaluating a navigation.
type Outcome int

const (
	Admit Outcome = iota
	Redirect
	// Pending means the identity is still resolving and the decision must wait.
	Pending
	// Deny means the route is not rendered at all.
	Deny
)

func (o Outcome) String() string {
	switch o {
	case Admit:
		return "admit"
	case Redirect:
		return "redirect"
	case Pending:
		return "pending"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Decision is what the guard tells the navigator to do.
type Decision struct {
	Outcome Outcome
	// Target is set for redirects.
	Target string
	// Replace means the current history entry is overwritten.
	Replace bool
}

// Evaluate decides a navigation to rt.
//
// Private routes consult only the durable flag and decide immediately.
// Role routes return Pending while the session is resolving so a provisional
// identity never causes a flash redirect.
func Evaluate(rt Route, authenticated bool, st auth.State, signIn string) Decision {
	switch rt.Sensitivity {
	case Public:
		return Decision{Outcome: Admit}
	case Private:
		if authenticated {
			return Decision{Outcome: Admit}
		}
		return Decision{Outcome: Redirect, Target: signIn, Replace: true}
	case RoleRestricted:
		if !authenticated {
			return Decision{Outcome: Redirect, Target: signIn, Replace: true}
		}
		if st.Resolving {
			return Decision{Outcome: Pending}
		}
		if st.Identity.HasRole(rt.Role) {
			return Decision{Outcome: Admit}
		}
		return Decision{Outcome: Deny}
	default:
		return Decision{Outcome: Deny}
	}
}

// Table matches request paths against registered routes.
// Patterns use the ServeMux wildcard form ("/post/{id}"); a trailing
// "{rest...}" segment matches the remaining path.
type Table struct {
	routes []Route
}

// NewTable builds a table. Earlier routes win on overlap.
func NewTable(routes ...Route) *Table {
	return &Table{routes: append([]Route(nil), routes...)}
}

// Match returns the route for path.
func (t *Table) Match(path string) (Route, bool) {
	segs := splitPath(path)
	for _, rt := range t.routes {
		if matchSegments(splitPath(rt.Pattern), segs) {
			return rt, true
		}
	}
	return Route{}, false
}

// Routes returns the registered routes in order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segs []string) bool {
	for i, ps := range pattern {
		if strings.HasPrefix(ps, "{") && strings.HasSuffix(ps, "...}") {
			return true
		}
		if i >= len(segs) {
			return false
		}
		if strings.HasPrefix(ps, "{") && strings.HasSuffix(ps, "}") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if ps != segs[i] {
			return false
		}
	}
	return len(pattern) == len(segs)
}
