package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthorCacheKind selects the backing store for resolved authors.
type AuthorCacheKind string

const (
	// AuthorCacheMemory keeps authors in process memory.
	AuthorCacheMemory AuthorCacheKind = "memory"
	// AuthorCacheRedis keeps authors in Redis.
	AuthorCacheRedis AuthorCacheKind = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthorCacheKind.
func (k *AuthorCacheKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*k = AuthorCacheKind(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthorCacheKind: %q (valid options: memory, redis)", v)
	}
}

// FeedConfig controls feed views.
type FeedConfig struct {
	// PrimaryPoll refreshes the global and per-user feeds.
	PrimaryPoll time.Duration `env:"PRIMARY_POLL" envDefault:"30s"`
	// SearchPoll refreshes search and hashtag feeds.
	SearchPoll time.Duration `env:"SEARCH_POLL" envDefault:"10s"`
	// PostPoll refreshes a single post view.
	PostPoll time.Duration `env:"POST_POLL" envDefault:"5s"`

	PageSize int    `env:"PAGE_SIZE" envDefault:"20"`
	Sort     string `env:"SORT"      envDefault:"dreamId,asc"`

	// ViewIdleTTL unmounts views nobody has read for this long.
	ViewIdleTTL time.Duration `env:"VIEW_IDLE_TTL" envDefault:"2m"`

	AuthorCache    AuthorCacheKind `env:"AUTHOR_CACHE"     envDefault:"memory"`
	AuthorCacheTTL time.Duration   `env:"AUTHOR_CACHE_TTL" envDefault:"5m"`

	SuggestionLimit int `env:"SUGGESTION_LIMIT" envDefault:"5"`
}

// Sanitize applies guardrails to feed configuration values.
func (f *FeedConfig) Sanitize() {
	f.PrimaryPoll = atLeast(f.PrimaryPoll, time.Second, 30*time.Second)
	f.SearchPoll = atLeast(f.SearchPoll, time.Second, 10*time.Second)
	f.PostPoll = atLeast(f.PostPoll, time.Second, 5*time.Second)
	f.ViewIdleTTL = atLeast(f.ViewIdleTTL, 10*time.Second, 2*time.Minute)
	if f.AuthorCacheTTL <= 0 {
		f.AuthorCacheTTL = 5 * time.Minute
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if strings.TrimSpace(f.Sort) == "" {
		f.Sort = "dreamId,asc"
	}
	if f.AuthorCache == "" {
		f.AuthorCache = AuthorCacheMemory
	}
	if f.SuggestionLimit < 1 {
		f.SuggestionLimit = 5
	}
}

// atLeast returns def for unset durations and clamps set ones to floor.
func atLeast(v, floor, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	if v < floor {
		return floor
	}
	return v
}
