package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: DreamsDoc API and credential storage
//   - drive.go: object storage provider (Google Drive)
//   - database.go: Redis connection
//   - http.go: local HTTP server
//   - feed.go: feed polling and caching
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, debug level).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Backend    BackendConfig    `envPrefix:"BACKEND_"`
	Credential CredentialConfig `envPrefix:"CREDENTIAL_"`
	Drive      DriveConfig      `envPrefix:"DRIVE_"`
	Redis      RedisConfig      `envPrefix:"REDIS_"`

	HTTP HTTPConfig
	Feed FeedConfig `envPrefix:"FEED_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Backend.Sanitize()
	c.Credential.Sanitize()
	c.Drive.Sanitize()
	c.HTTP.Sanitize()
	c.Feed.Sanitize()
	c.Observability.Sanitize()

	// Redis-backed credentials without a Redis URI fall back to the file store.
	if c.Credential.Store == CredentialStoreRedis && strings.TrimSpace(c.Redis.URI) == "" {
		c.Credential.Store = CredentialStoreFile
	}

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *AppConfig) UsesRedis() bool {
	return c.Credential.Store == CredentialStoreRedis || c.Feed.AuthorCache == AuthorCacheRedis
}
