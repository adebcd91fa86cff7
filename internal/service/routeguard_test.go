package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/route"
	mockauth "github.com/dreamsdoc/dreamsdoc-web/internal/mocks/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/navigation"
)

type guardFixture struct {
	guard *RouteGuard
	sess  *SessionService
	api   *mockauth.MockIdentityAPI
	hist  *navigation.History
}

func newGuardFixture(cred domainauth.Credential) guardFixture {
	api := mockauth.NewMockIdentityAPI()
	sess := NewSessionService(SessionServiceOptions{
		Identity:    api,
		Credentials: mockauth.NewMemoryCredentialStore(cred),
	})
	hist := navigation.NewHistory("/explore")
	guard := NewRouteGuard(RouteGuardOptions{
		Routes:  route.DefaultTable("/sign-in"),
		Session: sess,
		Config:  RouteGuardConfig{Navigator: hist},
	})
	return guardFixture{guard: guard, sess: sess, api: api, hist: hist}
}

func TestRouteGuard_PublicAlwaysAdmitted(t *testing.T) {
	f := newGuardFixture(domainauth.Credential{})
	rt, d := f.guard.Check(context.Background(), "/sign-up")
	assert.Equal(t, route.NameSignUp, rt.Name)
	assert.Equal(t, route.Admit, d.Outcome)
}

func TestRouteGuard_PrivateUsesDurableFlagOnly(t *testing.T) {
	f := newGuardFixture(domainauth.NewCredential("tok"))

	// Identity is still resolving; the private route is decided immediately.
	require.True(t, f.sess.Snapshot().Resolving)
	_, d := f.guard.Check(context.Background(), "/post/12")
	assert.Equal(t, route.Admit, d.Outcome)
}

func TestRouteGuard_PrivateRedirectReplacesHistory(t *testing.T) {
	f := newGuardFixture(domainauth.Credential{})

	_, d, err := f.guard.Admit(context.Background(), "/settings")
	require.NoError(t, err)

	assert.Equal(t, route.Redirect, d.Outcome)
	assert.Equal(t, "/sign-in", d.Target)
	assert.True(t, d.Replace)
	assert.Equal(t, []string{"/sign-in"}, f.hist.Entries(), "back never returns to the guarded route")
}

func TestRouteGuard_AdmitPushesHistory(t *testing.T) {
	f := newGuardFixture(domainauth.NewCredential("tok"))

	_, d, err := f.guard.Admit(context.Background(), "/hashtag/lucid")
	require.NoError(t, err)
	assert.Equal(t, route.Admit, d.Outcome)
	assert.Equal(t, []string{"/explore", "/hashtag/lucid"}, f.hist.Entries())
}

func TestRouteGuard_RoleRouteWaitsForResolution(t *testing.T) {
	f := newGuardFixture(domainauth.NewCredential("tok"))
	f.api.DefaultUser.Role = domainauth.RoleAdmin
	release := make(chan struct{})
	f.api.MeFunc = func(context.Context) (domainauth.Identity, error) {
		<-release
		return f.api.DefaultUser, nil
	}
	go func() { _, _ = f.sess.Resolve(context.Background()) }()

	_, d := f.guard.Check(context.Background(), "/admin")
	assert.Equal(t, route.Pending, d.Outcome, "no flash redirect while resolving")

	done := make(chan route.Decision, 1)
	go func() {
		_, d, _ := f.guard.Decide(context.Background(), "/admin")
		done <- d
	}()
	select {
	case <-done:
		t.Fatal("decided before resolution finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case d := <-done:
		assert.Equal(t, route.Admit, d.Outcome)
	case <-time.After(time.Second):
		t.Fatal("decision never arrived")
	}
}

func TestRouteGuard_RoleMismatchDenied(t *testing.T) {
	f := newGuardFixture(domainauth.NewCredential("tok"))
	_, err := f.sess.Resolve(context.Background())
	require.NoError(t, err)

	_, d, err := f.guard.Admit(context.Background(), "/admin/users/sol/activate")
	require.NoError(t, err)
	assert.Equal(t, route.Deny, d.Outcome)
	assert.Equal(t, []string{"/explore"}, f.hist.Entries())
}

func TestRouteGuard_RoleRouteUnauthenticatedRedirects(t *testing.T) {
	f := newGuardFixture(domainauth.Credential{})
	_, d := f.guard.Check(context.Background(), "/admin")
	assert.Equal(t, route.Redirect, d.Outcome)
}

func TestRouteGuard_DecideHonoursContext(t *testing.T) {
	f := newGuardFixture(domainauth.NewCredential("tok"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, d, err := f.guard.Decide(ctx, "/admin")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, route.Pending, d.Outcome)
}

func TestRouteGuard_UnknownPathDenied(t *testing.T) {
	f := newGuardFixture(domainauth.NewCredential("tok"))
	_, d := f.guard.Check(context.Background(), "/nope/nope")
	assert.Equal(t, route.Deny, d.Outcome)
}
