package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	mockauth "github.com/dreamsdoc/dreamsdoc-web/internal/mocks/auth"
)

type authFixture struct {
	svc   *AuthService
	api   *mockauth.MockIdentityAPI
	store *mockauth.MemoryCredentialStore
	nav   *mockauth.RecordingNavigator
	sess  *SessionService
}

func newAuthFixture() authFixture {
	api := mockauth.NewMockIdentityAPI()
	store := mockauth.NewMemoryCredentialStore(domainauth.Credential{})
	nav := &mockauth.RecordingNavigator{}
	sess := NewSessionService(SessionServiceOptions{Identity: api, Credentials: store})
	svc := NewAuthService(AuthServiceOptions{
		Identity: api,
		Session:  sess,
		Config:   AuthServiceConfig{Navigator: nav},
	})
	return authFixture{svc: svc, api: api, store: store, nav: nav, sess: sess}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "7", "exp": exp.Unix()}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

var validSignIn = domainauth.SignInInput{Username: "luna", Password: "Dream#2024"}

func TestAuthService_SignIn(t *testing.T) {
	f := newAuthFixture()
	token := signedToken(t, time.Now().Add(time.Hour))
	f.api.LoginFunc = func(_ context.Context, username, password string) (string, error) {
		assert.Equal(t, "luna", username)
		assert.Equal(t, "Dream#2024", password)
		return token, nil
	}

	id, err := f.svc.SignIn(context.Background(), validSignIn)
	require.NoError(t, err)

	assert.Equal(t, f.api.DefaultUser.UserID, id.UserID)
	cred := f.store.Current()
	assert.Equal(t, token, cred.Token)
	assert.True(t, cred.Authenticated)
	assert.False(t, cred.ExpiresAt.IsZero(), "expiry read from the token")

	st := f.sess.Snapshot()
	assert.False(t, st.Resolving)
	assert.Equal(t, id, st.Identity)
	assert.Equal(t, []mockauth.Navigation{{Path: "/", Replace: true}}, f.nav.Calls())
}

func TestAuthService_SignIn_ValidationNeverCallsBackend(t *testing.T) {
	tests := []struct {
		name  string
		in    domainauth.SignInInput
		field string
	}{
		{"missing username", domainauth.SignInInput{Password: "Dream#2024"}, "username"},
		{"short password", domainauth.SignInInput{Username: "luna", Password: "Ab#1"}, "password"},
		{"weak password", domainauth.SignInInput{Username: "luna", Password: "dreamdream"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			_, err := f.svc.SignIn(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
			assert.Zero(t, f.api.LoginCalls())
		})
	}
}

func TestAuthService_SignIn_BadCredentials(t *testing.T) {
	f := newAuthFixture()
	f.api.LoginFunc = func(context.Context, string, string) (string, error) {
		return "", apperrors.Unauthorized("Invalid username or password.")
	}

	_, err := f.svc.SignIn(context.Background(), validSignIn)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.False(t, f.store.Current().Present())
	assert.Empty(t, f.nav.Calls())
}

func TestAuthService_SignIn_ExpiredToken(t *testing.T) {
	f := newAuthFixture()
	expired := signedToken(t, time.Now().Add(-time.Hour))
	f.api.LoginFunc = func(context.Context, string, string) (string, error) { return expired, nil }

	_, err := f.svc.SignIn(context.Background(), validSignIn)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.False(t, f.store.Current().Present())
}

func TestAuthService_SignIn_ResolveFailure(t *testing.T) {
	f := newAuthFixture()
	f.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("me failed")
	}

	_, err := f.svc.SignIn(context.Background(), validSignIn)
	require.Error(t, err)
	assert.False(t, f.store.Current().Present(), "credential removed after failed resolution")
	assert.Empty(t, f.nav.Calls())
}

func TestAuthService_SignUp(t *testing.T) {
	f := newAuthFixture()
	in := domainauth.SignUpInput{
		Name:     "Luna Park",
		Username: "luna.park",
		Email:    "luna@example.com",
		Password: "whatever1",
		Role:     "ROLE_USER",
	}

	require.NoError(t, f.svc.SignUp(context.Background(), in))

	assert.Equal(t, []domainauth.SignUpInput{in}, f.api.Registered())
	assert.Equal(t, []mockauth.Navigation{{Path: "/sign-in"}}, f.nav.Calls())
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	base := domainauth.SignUpInput{
		Name:     "Luna",
		Username: "luna",
		Email:    "luna@example.com",
		Password: "whatever1",
		Role:     "ROLE_USER",
	}
	tests := []struct {
		name   string
		mutate func(*domainauth.SignUpInput)
		field  string
	}{
		{"bad email", func(in *domainauth.SignUpInput) { in.Email = "nope" }, "email"},
		{"bad username", func(in *domainauth.SignUpInput) { in.Username = "lu$na" }, "username"},
		{"unknown role", func(in *domainauth.SignUpInput) { in.Role = "ROLE_ROOT" }, "role"},
		{"admin without key", func(in *domainauth.SignUpInput) { in.Role = "ROLE_ADMIN" }, "key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			in := base
			tt.mutate(&in)

			err := f.svc.SignUp(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, tt.field, apperrors.GetField(err), fmt.Sprint(err))
			assert.Empty(t, f.api.Registered())
		})
	}
}

func TestAuthService_SignOut(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.SignIn(context.Background(), validSignIn)
	require.NoError(t, err)

	require.NoError(t, f.svc.SignOut(context.Background()))

	assert.False(t, f.store.Current().Present())
	assert.True(t, f.sess.Snapshot().Identity.IsZero())
	calls := f.nav.Calls()
	assert.Equal(t, mockauth.Navigation{Path: "/sign-in", Replace: true}, calls[len(calls)-1])
}
