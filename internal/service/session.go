package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Identity    ports.IdentityAPI     // Required
	Credentials ports.CredentialStore // Required
	Obs         Observability         // Optional
}

// SessionService owns the process-wide identity. Other components read
// immutable snapshots and never mutate the identity directly.
//
// It starts resolving with the placeholder identity; Resolve ends that state.
type SessionService struct {
	identity ports.IdentityAPI
	creds    ports.CredentialStore
	obs      Observability
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	state   domainauth.State
	done    chan struct{} // closed when the current resolution finishes
	gen     uint64        // bumped by Set and Establish
	pending int           // resolutions in flight

	group singleflight.Group
}

// NewSessionService constructs a SessionService in the resolving state.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Identity == nil {
		panic("IdentityAPI is required")
	}
	if opts.Credentials == nil {
		panic("CredentialStore is required")
	}
	return &SessionService{
		identity: opts.Identity,
		creds:    opts.Credentials,
		obs:      opts.Obs,
		logger:   opts.Obs.logger("session"),
		now:      time.Now,
		state:    domainauth.State{Identity: domainauth.EmptyIdentity(), Resolving: true},
		done:     make(chan struct{}),
	}
}

// Resolve issues one identity request. Any failure leaves the placeholder
// identity and removes the stored credential. It is never retried; concurrent
// callers share the in-flight request.
func (s *SessionService) Resolve(ctx context.Context) (domainauth.Identity, error) {
	v, err, _ := s.group.Do("resolve", func() (any, error) {
		return s.resolve(context.WithoutCancel(ctx), s.beginResolving())
	})
	if err != nil {
		return domainauth.EmptyIdentity(), err
	}
	return v.(domainauth.Identity), nil
}

// resolve runs one identity request for generation gen. When Set or Establish
// moved the session on while the request was in flight, the outcome is
// dropped: neither the identity nor the stored credential is touched.
func (s *SessionService) resolve(ctx context.Context, gen uint64) (domainauth.Identity, error) {
	start := time.Now()
	sent, loadErr := s.creds.Load(ctx)
	if loadErr != nil {
		s.logger.WarnContext(ctx, "load credential failed", "error", loadErr)
	}

	id, err := s.identity.Me(ctx)
	if err == nil && id.IsZero() {
		err = errors.New("identity response carried no user id")
	}
	if err != nil {
		if s.current(gen) {
			s.logger.InfoContext(ctx, "identity resolution failed; clearing credential", "error", err)
			err = s.discard(ctx, sent.Token, err)
		}
		if !s.finishResolving(gen, domainauth.EmptyIdentity()) {
			s.logger.DebugContext(ctx, "stale identity resolution dropped", "error", err)
		}
		s.obs.emit("session", "resolve", start, err)
		return domainauth.Identity{}, fmt.Errorf("resolve identity: %w", err)
	}

	if !s.finishResolving(gen, id) {
		s.logger.DebugContext(ctx, "stale identity resolution dropped", "user_id", id.UserID)
	}
	s.obs.emit("session", "resolve", start, nil)
	s.logger.DebugContext(ctx, "identity resolved", "user_id", id.UserID, "role", id.Role)
	return id, nil
}

// discard removes the credential the failed request carried. A credential
// saved since then holds a different token and survives.
func (s *SessionService) discard(ctx context.Context, token string, cause error) error {
	if token == "" {
		return cause
	}
	if _, err := s.creds.EvictIfCurrent(ctx, token); err != nil {
		s.logger.ErrorContext(ctx, "clear credential failed", "error", err)
		return errors.Join(cause, fmt.Errorf("clear credential: %w", err))
	}
	return cause
}

func (s *SessionService) beginResolving() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
	if !s.state.Resolving {
		s.state.Resolving = true
		s.done = make(chan struct{})
	}
	return s.gen
}

func (s *SessionService) current(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen == gen
}

// finishResolving applies id when gen is still current and reports whether it
// did. Resolving ends once the current generation has an answer or nothing is
// left in flight.
func (s *SessionService) finishResolving(gen uint64, id domainauth.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	applied := gen == s.gen
	if applied {
		s.state.Identity = id
	}
	if applied || s.pending == 0 {
		s.state.Resolving = false
		select {
		case <-s.done:
		default:
			close(s.done)
		}
	}
	return applied
}

// Set replaces the identity synchronously. The resolving flag is untouched,
// and a resolution already in flight can no longer overwrite id.
func (s *SessionService) Set(id domainauth.Identity) {
	s.mu.Lock()
	s.gen++
	s.state.Identity = id
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *SessionService) Snapshot() domainauth.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// WaitResolved blocks until no resolution is in progress.
func (s *SessionService) WaitResolved(ctx context.Context) (domainauth.State, error) {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()
	select {
	case <-done:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Authenticated reports the durable authenticated flag. It reads storage
// directly and never waits for identity resolution.
func (s *SessionService) Authenticated(ctx context.Context) bool {
	cred, err := s.creds.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load credential failed", "error", err)
		return false
	}
	return cred.Present() && !cred.Expired(s.now())
}

// Establish persists a freshly issued credential and resolves its identity.
// It does not join an in-flight Resolve, which may have read the old
// credential; that Resolve becomes stale and its outcome is dropped.
func (s *SessionService) Establish(ctx context.Context, cred domainauth.Credential) (domainauth.Identity, error) {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
	if err := s.creds.Save(ctx, cred); err != nil {
		return domainauth.Identity{}, fmt.Errorf("save credential: %w", err)
	}
	return s.resolve(ctx, s.beginResolving())
}

// End clears the credential and the identity.
func (s *SessionService) End(ctx context.Context) error {
	s.Set(domainauth.EmptyIdentity())
	if err := s.creds.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Evicted is called by the gateway after it evicted the credential.
func (s *SessionService) Evicted(context.Context) {
	s.Set(domainauth.EmptyIdentity())
}
