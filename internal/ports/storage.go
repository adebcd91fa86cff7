package ports

import (
	"context"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/upload"
)

// ObjectStorage is the third-party storage provider. Calls are authorized
// with the provider token, never with the backend credential.
type ObjectStorage interface {
	// FindFolder looks a folder up by exact name; found is false when absent.
	FindFolder(ctx context.Context, token, name string) (id string, found bool, err error)
	CreateFolder(ctx context.Context, token, name string) (string, error)
	Upload(ctx context.Context, token, folderID string, file upload.File) (string, error)
	// SetPublic grants anyone-with-link read access.
	SetPublic(ctx context.Context, token, objectID string) error
}

// StorageAuthenticator supplies provider tokens.
type StorageAuthenticator interface {
	// Token returns the cached provider token or authenticates for a new one.
	Token(ctx context.Context) (string, error)
	// Evict drops the cached token so the next call re-authenticates.
	Evict(ctx context.Context) error
}

// TokenCache holds the provider token.
type TokenCache interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, token string, ttl time.Duration) error
	Delete(ctx context.Context) error
}
