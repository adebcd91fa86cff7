package ports

// Package ports defines interfaces (hexagonal ports) for session and identity behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

// CredentialStore persists the durable credential outside process memory.
// The token and the authenticated flag are always written and removed together.
type CredentialStore interface {
	Load(ctx context.Context) (domainauth.Credential, error)
	Save(ctx context.Context, cred domainauth.Credential) error
	Clear(ctx context.Context) error

	// EvictIfCurrent clears the credential only while it still holds token.
	// It reports whether this call performed the eviction, so concurrent
	// rejections of the same token evict exactly once.
	EvictIfCurrent(ctx context.Context, token string) (bool, error)
}

// IdentityAPI is the backend's identity surface.
type IdentityAPI interface {
	// Me resolves the identity the stored credential belongs to.
	Me(ctx context.Context) (domainauth.Identity, error)
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	// Register creates an account.
	Register(ctx context.Context, in domainauth.SignUpInput) error
}

// RoleMapper maps backend role names to application roles.
type RoleMapper interface {
	Map(roles ...string) domainauth.Role
}

// Navigator moves the application to another location.
type Navigator interface {
	Push(path string)
	// Replace overwrites the current history entry.
	Replace(path string)
}
