package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
)

// AuthorCache stores resolved authors as JSON keyed by user id.
type AuthorCache struct {
	client redis.UniversalClient
	prefix string
}

// NewAuthorCache creates a Redis author cache.
func NewAuthorCache(client redis.UniversalClient, prefix string) *AuthorCache {
	if client == nil {
		panic("redis client is required")
	}
	return &AuthorCache{client: client, prefix: prefix + "author:"}
}

// Get returns a cached author. Misses return ok=false and no error.
func (c *AuthorCache) Get(ctx context.Context, id string) (feed.Author, bool, error) {
	if id == "" {
		return feed.Author{}, false, nil
	}
	data, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return feed.Author{}, false, nil
	}
	if err != nil {
		return feed.Author{}, false, fmt.Errorf("redis get author: %w", err)
	}
	var a feed.Author
	if err := json.Unmarshal(data, &a); err != nil {
		return feed.Author{}, false, fmt.Errorf("unmarshal author: %w", err)
	}
	return a, true, nil
}

// Set caches an author for ttl.
func (c *AuthorCache) Set(ctx context.Context, a feed.Author, ttl time.Duration) error {
	if a.UserID == "" {
		return errors.New("author id cannot be empty")
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal author: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+a.UserID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set author: %w", err)
	}
	return nil
}
