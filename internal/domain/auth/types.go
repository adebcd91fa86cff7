package auth

// Package auth contains domain-level types for identities, credentials and session state.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
	RoleGuest    Role = "guest"
)

// Identity is the resolved representation of the currently signed-in user.
// Adapters map backend user payloads into this shape.
type Identity struct {
	UserID          string `json:"user_id,omitempty"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	Role            Role   `json:"role"`
	DisplayName     string `json:"display_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Verified        bool   `json:"verified"`
	Active          bool   `json:"active"`
}

// EmptyIdentity is the placeholder used before resolution and after sign-out.
func EmptyIdentity() Identity { return Identity{Role: RoleGuest} }

// IsZero reports whether the identity has not been resolved to a user.
func (i Identity) IsZero() bool { return i.UserID == "" }

// HasRole reports whether a resolved identity carries the role.
func (i Identity) HasRole(r Role) bool { return !i.IsZero() && i.Role == r }

// State is the immutable snapshot handed to consumers.
// While Resolving is true the Identity is provisional and must not gate routes.
type State struct {
	Identity  Identity `json:"identity"`
	Resolving bool     `json:"resolving"`
}

// Credential is the durable bearer token plus the authenticated flag.
// Token presence and Authenticated are always written and cleared together.
type Credential struct {
	Token         string    `json:"token"`
	Authenticated bool      `json:"authenticated"`
	ExpiresAt     time.Time `json:"expires_at,omitzero"`
}

// Present reports whether both halves of the credential are set.
func (c Credential) Present() bool { return c.Token != "" && c.Authenticated }

// Consistent reports whether token presence and the flag agree.
func (c Credential) Consistent() bool { return (c.Token != "") == c.Authenticated }

// Expired reports whether a known expiry has passed.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// NewCredential pairs a token with the authenticated flag and its expiry, if any.
func NewCredential(token string) Credential {
	c := Credential{Token: token, Authenticated: token != ""}
	if exp, ok := ExpiryFromToken(token); ok {
		c.ExpiresAt = exp
	}
	return c
}
