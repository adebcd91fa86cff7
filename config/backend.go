package config

import (
	"fmt"
	"strings"
	"time"
)

// BackendConfig describes the DreamsDoc REST API.
type BackendConfig struct {
	// BaseURL is the API root; every endpoint path is appended to it.
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8080/api"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"15s"`

	// AdminRoles and UserRoles map backend role names onto application roles.
	AdminRoles []string `env:"ADMIN_ROLES" envDefault:"ROLE_ADMIN"`
	UserRoles  []string `env:"USER_ROLES"  envDefault:"ROLE_USER"`
}

// Sanitize trims the base URL and enforces a positive timeout.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
}

// CredentialStoreKind selects where the durable credential lives.
type CredentialStoreKind string

const (
	// CredentialStoreRedis keeps the credential in Redis.
	CredentialStoreRedis CredentialStoreKind = "redis"
	// CredentialStoreFile keeps the credential in a local JSON file.
	CredentialStoreFile CredentialStoreKind = "file"
)

// UnmarshalText implements encoding.TextUnmarshaler for CredentialStoreKind.
func (k *CredentialStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "file":
		*k = CredentialStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid CredentialStoreKind: %q (valid options: redis, file)", v)
	}
}

// CredentialConfig controls durable credential storage.
type CredentialConfig struct {
	Store CredentialStoreKind `env:"STORE" envDefault:"file"`

	// FilePath is used when Store=file.
	FilePath string `env:"FILE_PATH" envDefault:".dreamsdoc/credential.json"`

	// KeyPrefix namespaces the Redis keys when Store=redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"dreamsdoc:"`
}

// Sanitize applies defaults to empty values.
func (c *CredentialConfig) Sanitize() {
	if c.Store == "" {
		c.Store = CredentialStoreFile
	}
	if strings.TrimSpace(c.FilePath) == "" {
		c.FilePath = ".dreamsdoc/credential.json"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "dreamsdoc:"
	}
}
