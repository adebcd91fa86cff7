package route

import "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"

// Route names used by handlers and the guard.
const (
	NameSignIn      = "sign-in"
	NameSignUp      = "sign-up"
	NameHealth      = "healthz"
	NameHome        = "home"
	NameExplore     = "explore"
	NamePost        = "post"
	NameUser        = "user"
	NameHashtag     = "hashtag"
	NameSearch      = "search"
	NameSettings    = "settings"
	NameDreams      = "dreams"
	NameSuggestions = "suggestions"
	NameStream      = "stream"
	NameSignOut     = "sign-out"
	NameSession     = "session"
	NameAdmin       = "admin"
)

// DefaultTable is the DreamsDoc route table. The metrics path is added by
// the router because it is configurable.
func DefaultTable(signIn string) *Table {
	return NewTable(
		Route{Name: NameSignIn, Pattern: signIn, Sensitivity: Public},
		Route{Name: NameSignUp, Pattern: "/sign-up", Sensitivity: Public},
		Route{Name: NameHealth, Pattern: "/healthz", Sensitivity: Public},
		Route{Name: NameSession, Pattern: "/session", Sensitivity: Public},
		Route{Name: NameHome, Pattern: "/", Sensitivity: Private},
		Route{Name: NameExplore, Pattern: "/explore", Sensitivity: Private},
		Route{Name: NamePost, Pattern: "/post/{id}", Sensitivity: Private},
		Route{Name: NameUser, Pattern: "/users/{id}", Sensitivity: Private},
		Route{Name: NameHashtag, Pattern: "/hashtag/{tag}", Sensitivity: Private},
		Route{Name: NameSearch, Pattern: "/search", Sensitivity: Private},
		Route{Name: NameSettings, Pattern: "/settings", Sensitivity: Private},
		Route{Name: NameSettings, Pattern: "/settings/{page}", Sensitivity: Private},
		Route{Name: NameDreams, Pattern: "/dreams/{rest...}", Sensitivity: Private},
		Route{Name: NameSuggestions, Pattern: "/suggestions", Sensitivity: Private},
		Route{Name: NameStream, Pattern: "/ws", Sensitivity: Private},
		Route{Name: NameSignOut, Pattern: "/sign-out", Sensitivity: Private},
		Route{Name: NameAdmin, Pattern: "/admin/{rest...}", Sensitivity: RoleRestricted, Role: auth.RoleAdmin},
	)
}
