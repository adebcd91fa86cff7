// Package memory provides in-process caches used when Redis is not configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

func (e entry[V]) live(now time.Time) bool {
	return e.expires.IsZero() || now.Before(e.expires)
}

// AuthorCache keeps resolved authors in process memory.
type AuthorCache struct {
	mu      sync.RWMutex
	entries map[string]entry[feed.Author]
	now     func() time.Time
}

// NewAuthorCache creates an empty author cache.
func NewAuthorCache() *AuthorCache {
	return &AuthorCache{entries: make(map[string]entry[feed.Author]), now: time.Now}
}

// Get returns a live cached author.
func (c *AuthorCache) Get(_ context.Context, id string) (feed.Author, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok || !e.live(c.now()) {
		return feed.Author{}, false, nil
	}
	return e.value, true, nil
}

// Set caches an author. Expired entries are pruned on write.
func (c *AuthorCache) Set(_ context.Context, a feed.Author, ttl time.Duration) error {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		if !e.live(now) {
			delete(c.entries, id)
		}
	}
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	c.entries[a.UserID] = entry[feed.Author]{value: a, expires: exp}
	return nil
}

// TokenCache keeps the storage provider token in process memory.
type TokenCache struct {
	mu  sync.Mutex
	tok entry[string]
	now func() time.Time
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Get returns the cached token if it has not expired.
func (c *TokenCache) Get(context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tok.value == "" || !c.tok.live(c.now()) {
		return "", false, nil
	}
	return c.tok.value, true, nil
}

// Set caches the token for ttl.
func (c *TokenCache) Set(_ context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl <= 0 {
		c.tok = entry[string]{}
		return nil
	}
	c.tok = entry[string]{value: token, expires: c.now().Add(ttl)}
	return nil
}

// Delete drops the cached token.
func (c *TokenCache) Delete(context.Context) error {
	c.mu.Lock()
	c.tok = entry[string]{}
	c.mu.Unlock()
	return nil
}
