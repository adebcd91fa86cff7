package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
)

func TestMockIdentityAPI_Defaults(t *testing.T) {
	api := NewMockIdentityAPI()
	ctx := context.Background()

	id, err := api.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", id.UserID)

	tok, err := api.Login(ctx, "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "mock-token", tok)

	require.NoError(t, api.Register(ctx, domainauth.SignUpInput{Username: "new"}))
	assert.Equal(t, 1, api.MeCalls())
	assert.Equal(t, 1, api.LoginCalls())
	assert.Len(t, api.Registered(), 1)
}

func TestMockIdentityAPI_CustomFunc(t *testing.T) {
	boom := errors.New("boom")
	api := &MockIdentityAPI{MeFunc: func(context.Context) (domainauth.Identity, error) {
		return domainauth.Identity{}, boom
	}}
	_, err := api.Me(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMemoryCredentialStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCredentialStore(domainauth.Credential{Token: "a", Authenticated: true})

	ok, err := s.EvictIfCurrent(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = s.EvictIfCurrent(ctx, "a")
	assert.True(t, ok)
	ok, _ = s.EvictIfCurrent(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Evictions())

	assert.Error(t, s.Save(ctx, domainauth.Credential{Token: "x"}))
	require.NoError(t, s.Save(ctx, domainauth.Credential{Token: "x", Authenticated: true}))
	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Current().Present())
}

func TestRecordingNavigator(t *testing.T) {
	var n RecordingNavigator
	n.Push("/a")
	n.Replace("/sign-in")
	assert.Equal(t, []Navigation{{Path: "/a"}, {Path: "/sign-in", Replace: true}}, n.Calls())
}
