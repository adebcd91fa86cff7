package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

func newStore(t *testing.T) *CredentialStore {
	t.Helper()
	return NewCredentialStore(filepath.Join(t.TempDir(), "nested", "credential.json"))
}

func TestCredentialStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	cred, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, cred.Present())

	require.NoError(t, s.Save(ctx, domainauth.Credential{Token: "tok", Authenticated: true}))
	cred, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", cred.Token)
	assert.True(t, cred.Authenticated)

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear(ctx))
	cred, err = s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, cred.Present())
	require.NoError(t, s.Clear(ctx), "clearing twice is fine")
}

func TestCredentialStore_RejectsPartialCredential(t *testing.T) {
	s := newStore(t)
	assert.Error(t, s.Save(context.Background(), domainauth.Credential{Token: "tok"}))
	assert.Error(t, s.Save(context.Background(), domainauth.Credential{Authenticated: true}))
}

func TestCredentialStore_DropsInconsistentFile(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o700))
	require.NoError(t, os.WriteFile(s.path, []byte(`{"token":"tok","authenticated":false}`), 0o600))

	cred, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, cred.Present())
	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCredentialStore_DropsExpired(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, domainauth.Credential{Token: "tok", Authenticated: true, ExpiresAt: now.Add(time.Minute)}))
	now = now.Add(2 * time.Minute)

	cred, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, cred.Present())
}

func TestCredentialStore_EvictIfCurrent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Save(ctx, domainauth.Credential{Token: "old", Authenticated: true}))

	evicted, err := s.EvictIfCurrent(ctx, "other")
	require.NoError(t, err)
	assert.False(t, evicted)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.EvictIfCurrent(ctx, "old")
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	evicted, err = s.EvictIfCurrent(ctx, "")
	require.NoError(t, err)
	assert.False(t, evicted)
}

func TestCredentialStore_EvictKeepsNewerCredential(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Save(ctx, domainauth.Credential{Token: "new", Authenticated: true}))

	evicted, err := s.EvictIfCurrent(ctx, "old")
	require.NoError(t, err)
	assert.False(t, evicted)

	cred, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", cred.Token)
}
