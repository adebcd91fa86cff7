// Package filestore persists the credential as a JSON file for single-user installs.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

// CredentialStore keeps the credential in one file. Writes go to a temp file
// that is renamed over the target, so readers never see a half-written record.
type CredentialStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewCredentialStore creates a file-backed store at path.
func NewCredentialStore(path string) *CredentialStore {
	if path == "" {
		panic("credential file path is required")
	}
	return &CredentialStore{path: path, now: time.Now}
}

// Load reads the credential. Inconsistent or expired records are removed.
func (s *CredentialStore) Load(context.Context) (domainauth.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *CredentialStore) loadLocked() (domainauth.Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domainauth.Credential{}, nil
	}
	if err != nil {
		return domainauth.Credential{}, fmt.Errorf("read credential file: %w", err)
	}

	var cred domainauth.Credential
	if err := json.Unmarshal(data, &cred); err != nil || !cred.Consistent() || cred.Expired(s.now()) {
		if rmErr := s.removeLocked(); rmErr != nil {
			return domainauth.Credential{}, rmErr
		}
		return domainauth.Credential{}, nil
	}
	return cred, nil
}

// Save replaces the credential file atomically.
func (s *CredentialStore) Save(_ context.Context, cred domainauth.Credential) error {
	if !cred.Present() {
		return errors.New("credential must carry a token and the authenticated flag")
	}
	if cred.Expired(s.now()) {
		return errors.New("credential is expired")
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write credential: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credential: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod credential: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace credential file: %w", err)
	}
	return nil
}

// Clear deletes the credential file.
func (s *CredentialStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked()
}

// EvictIfCurrent removes the file only while it still holds token.
func (s *CredentialStore) EvictIfCurrent(_ context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.loadLocked()
	if err != nil {
		return false, err
	}
	if cur.Token != token {
		return false, nil
	}
	if err := s.removeLocked(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CredentialStore) removeLocked() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
