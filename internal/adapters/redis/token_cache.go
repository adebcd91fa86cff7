package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores the storage provider token with its TTL.
type TokenCache struct {
	client redis.UniversalClient
	key    string
}

// NewTokenCache creates a provider token cache.
func NewTokenCache(client redis.UniversalClient, prefix string) *TokenCache {
	if client == nil {
		panic("redis client is required")
	}
	return &TokenCache{client: client, key: prefix + "storage:token"}
}

// Get returns the cached token; ok is false on a miss.
func (c *TokenCache) Get(ctx context.Context) (string, bool, error) {
	tok, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get provider token: %w", err)
	}
	return tok, tok != "", nil
}

// Set caches token for ttl.
func (c *TokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, c.key, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set provider token: %w", err)
	}
	return nil
}

// Delete drops the cached token.
func (c *TokenCache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis delete provider token: %w", err)
	}
	return nil
}
