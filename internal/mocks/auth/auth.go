package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityAPI     = (*MockIdentityAPI)(nil)
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.Navigator       = (*RecordingNavigator)(nil)
)

// MockIdentityAPI simulates the backend identity endpoints.
type MockIdentityAPI struct {
	MeFunc       func(ctx context.Context) (domainauth.Identity, error)
	LoginFunc    func(ctx context.Context, username, password string) (string, error)
	RegisterFunc func(ctx context.Context, in domainauth.SignUpInput) error

	// DefaultUser is returned by Me when MeFunc is nil.
	DefaultUser domainauth.Identity

	mu         sync.Mutex
	meCalls    int
	loginCalls int
	registered []domainauth.SignUpInput
}

// NewMockIdentityAPI creates a MockIdentityAPI with sensible defaults.
func NewMockIdentityAPI() *MockIdentityAPI {
	return &MockIdentityAPI{
		DefaultUser: domainauth.Identity{
			UserID:      "mock-user-1",
			Username:    "mockuser",
			Email:       "mock.user@example.com",
			Role:        domainauth.RoleStandard,
			DisplayName: "Mock User",
			Active:      true,
		},
	}
}

func (m *MockIdentityAPI) Me(ctx context.Context) (domainauth.Identity, error) {
	m.mu.Lock()
	m.meCalls++
	m.mu.Unlock()
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return m.DefaultUser, nil
}

func (m *MockIdentityAPI) Login(ctx context.Context, username, password string) (string, error) {
	m.mu.Lock()
	m.loginCalls++
	m.mu.Unlock()
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return "mock-token", nil
}

func (m *MockIdentityAPI) Register(ctx context.Context, in domainauth.SignUpInput) error {
	m.mu.Lock()
	m.registered = append(m.registered, in)
	m.mu.Unlock()
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return nil
}

// MeCalls reports how many times Me was invoked.
func (m *MockIdentityAPI) MeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meCalls
}

// LoginCalls reports how many times Login was invoked.
func (m *MockIdentityAPI) LoginCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginCalls
}

// Registered returns the sign-up inputs received so far.
func (m *MockIdentityAPI) Registered() []domainauth.SignUpInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domainauth.SignUpInput(nil), m.registered...)
}

// MemoryCredentialStore is an in-memory credential store for unit tests.
type MemoryCredentialStore struct {
	mu        sync.Mutex
	cred      domainauth.Credential
	evictions int

	// LoadErr, when set, is returned by Load.
	LoadErr error
}

// NewMemoryCredentialStore creates a store holding cred.
func NewMemoryCredentialStore(cred domainauth.Credential) *MemoryCredentialStore {
	return &MemoryCredentialStore{cred: cred}
}

func (m *MemoryCredentialStore) Load(context.Context) (domainauth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return domainauth.Credential{}, m.LoadErr
	}
	return m.cred, nil
}

func (m *MemoryCredentialStore) Save(_ context.Context, cred domainauth.Credential) error {
	if !cred.Present() {
		return errors.New("credential must carry a token and the authenticated flag")
	}
	m.mu.Lock()
	m.cred = cred
	m.mu.Unlock()
	return nil
}

func (m *MemoryCredentialStore) Clear(context.Context) error {
	m.mu.Lock()
	m.cred = domainauth.Credential{}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCredentialStore) EvictIfCurrent(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" || m.cred.Token != token {
		return false, nil
	}
	m.cred = domainauth.Credential{}
	m.evictions++
	return true, nil
}

// Current returns the stored credential.
func (m *MemoryCredentialStore) Current() domainauth.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred
}

// Evictions reports how many EvictIfCurrent calls removed the credential.
func (m *MemoryCredentialStore) Evictions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictions
}

// Navigation is one recorded Push or Replace.
type Navigation struct {
	Path    string
	Replace bool
}

// RecordingNavigator records navigations.
type RecordingNavigator struct {
	mu    sync.Mutex
	calls []Navigation
}

func (n *RecordingNavigator) Push(path string) {
	n.mu.Lock()
	n.calls = append(n.calls, Navigation{Path: path})
	n.mu.Unlock()
}

func (n *RecordingNavigator) Replace(path string) {
	n.mu.Lock()
	n.calls = append(n.calls, Navigation{Path: path, Replace: true})
	n.mu.Unlock()
}

// Calls returns the recorded navigations in order.
func (n *RecordingNavigator) Calls() []Navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Navigation(nil), n.calls...)
}
