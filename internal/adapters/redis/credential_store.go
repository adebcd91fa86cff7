package redis

// Package redis provides Redis-backed adapters for DreamsDoc.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

// CredentialStore keeps the bearer token and the authenticated flag under two
// keys that are always written and deleted in one atomic step.
type CredentialStore struct {
	client   redis.UniversalClient
	tokenKey string
	flagKey  string
}

// evictScript deletes both keys only while the token key still holds ARGV[1].
// It returns 1 when this call performed the eviction.
var evictScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("DEL", KEYS[1], KEYS[2])
  return 1
end
return 0
`)

// NewCredentialStore creates a Redis credential store. prefix namespaces the keys.
func NewCredentialStore(client redis.UniversalClient, prefix string) *CredentialStore {
	if client == nil {
		panic("redis client is required")
	}
	// Hash tag keeps both keys on one cluster slot so MULTI and EVAL work.
	base := prefix + "{credential}:"
	return &CredentialStore{
		client:   client,
		tokenKey: base + "token",
		flagKey:  base + "authenticated",
	}
}

// Load returns the stored credential. A half-written credential (token without
// flag or the reverse) is cleared and reported as empty.
func (s *CredentialStore) Load(ctx context.Context) (domainauth.Credential, error) {
	vals, err := s.client.MGet(ctx, s.tokenKey, s.flagKey).Result()
	if err != nil {
		return domainauth.Credential{}, fmt.Errorf("redis mget credential: %w", err)
	}

	token, _ := vals[0].(string)
	flag, _ := vals[1].(string)
	cred := domainauth.Credential{Token: token, Authenticated: flag == "true"}

	if !cred.Consistent() {
		if clearErr := s.Clear(ctx); clearErr != nil {
			return domainauth.Credential{}, fmt.Errorf("clear inconsistent credential: %w", clearErr)
		}
		return domainauth.Credential{}, nil
	}
	if !cred.Present() {
		return domainauth.Credential{}, nil
	}

	ttl, err := s.client.PTTL(ctx, s.tokenKey).Result()
	if err == nil && ttl > 0 {
		cred.ExpiresAt = time.Now().Add(ttl)
	}
	return cred, nil
}

// Save writes both halves in one transaction. The keys expire with the token
// when its expiry is known.
func (s *CredentialStore) Save(ctx context.Context, cred domainauth.Credential) error {
	if !cred.Present() {
		return errors.New("credential must carry a token and the authenticated flag")
	}
	var ttl time.Duration
	if !cred.ExpiresAt.IsZero() {
		ttl = time.Until(cred.ExpiresAt)
		if ttl <= 0 {
			return errors.New("credential is expired")
		}
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey, cred.Token, ttl)
		pipe.Set(ctx, s.flagKey, "true", ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save credential: %w", err)
	}
	return nil
}

// Clear removes both keys with a single DEL.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey, s.flagKey).Err(); err != nil {
		return fmt.Errorf("redis clear credential: %w", err)
	}
	return nil
}

// EvictIfCurrent atomically clears the credential if it still holds token.
func (s *CredentialStore) EvictIfCurrent(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := evictScript.Run(ctx, s.client, []string{s.tokenKey, s.flagKey}, token).Int()
	if err != nil {
		return false, fmt.Errorf("redis evict credential: %w", err)
	}
	return n == 1, nil
}
