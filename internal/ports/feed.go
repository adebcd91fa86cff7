package ports

import (
	"context"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
)

// PageParams are the pagination and sort parameters of list endpoints.
type PageParams struct {
	Page int
	Size int
	Sort string
}

// DreamAPI is the backend's post surface. Every call goes through the
// authenticated request gateway.
type DreamAPI interface {
	ListDreams(ctx context.Context, page PageParams) ([]feed.PostRecord, error)
	ListUserDreams(ctx context.Context, userID string, page PageParams) ([]feed.PostRecord, error)
	GetDream(ctx context.Context, id string) ([]feed.PostRecord, error)
	SearchDreams(ctx context.Context, query string) ([]feed.PostRecord, error)
	ListHashtag(ctx context.Context, tag string) ([]feed.PostRecord, error)
	CreateDream(ctx context.Context, in feed.CreatePost) error
	DeleteDream(ctx context.Context, id string) error
}

// UserAPI is the backend's user and follow-graph surface.
type UserAPI interface {
	// GetUser resolves a bare author reference to display fields.
	GetUser(ctx context.Context, ref string) (feed.Author, error)
	ListUsers(ctx context.Context, page PageParams) ([]user.Summary, error)
	Following(ctx context.Context, userID string) ([]user.Summary, error)
	Activate(ctx context.Context, username string) error
}

// AuthorCache stores resolved authors between fetches.
type AuthorCache interface {
	Get(ctx context.Context, id string) (feed.Author, bool, error)
	Set(ctx context.Context, author feed.Author, ttl time.Duration) error
}
