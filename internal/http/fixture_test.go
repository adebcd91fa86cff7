package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/feed"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/route"
	"github.com/dreamsdoc/dreamsdoc-web/internal/domain/user"
	"github.com/dreamsdoc/dreamsdoc-web/internal/mocks"
	mockauth "github.com/dreamsdoc/dreamsdoc-web/internal/mocks/auth"
	"github.com/dreamsdoc/dreamsdoc-web/internal/navigation"
	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// stubDreams is a goroutine-safe DreamAPI. Feed views poll it in the
// background, so it must outlive the test's expectations.
type stubDreams struct {
	mu      sync.Mutex
	posts   []feed.PostRecord
	err     error
	created []feed.CreatePost
	deleted []string
	lists   int
}

func (s *stubDreams) list() ([]feed.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.err != nil {
		return nil, s.err
	}
	return append([]feed.PostRecord(nil), s.posts...), nil
}

func (s *stubDreams) ListDreams(context.Context, ports.PageParams) ([]feed.PostRecord, error) {
	return s.list()
}

func (s *stubDreams) ListUserDreams(context.Context, string, ports.PageParams) ([]feed.PostRecord, error) {
	return s.list()
}

func (s *stubDreams) GetDream(context.Context, string) ([]feed.PostRecord, error) { return s.list() }

func (s *stubDreams) SearchDreams(context.Context, string) ([]feed.PostRecord, error) {
	return s.list()
}

func (s *stubDreams) ListHashtag(context.Context, string) ([]feed.PostRecord, error) {
	return s.list()
}

func (s *stubDreams) CreateDream(_ context.Context, in feed.CreatePost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, in)
	return nil
}

func (s *stubDreams) DeleteDream(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubDreams) setPosts(posts ...feed.PostRecord) {
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
}

func (s *stubDreams) Created() []feed.CreatePost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]feed.CreatePost(nil), s.created...)
}

type stubUsers struct {
	all       []user.Summary
	following []user.Summary
	activated []string
}

func (s *stubUsers) GetUser(_ context.Context, ref string) (feed.Author, error) {
	return feed.Author{UserID: ref, Username: "user" + ref}, nil
}

func (s *stubUsers) ListUsers(context.Context, ports.PageParams) ([]user.Summary, error) {
	return s.all, nil
}

func (s *stubUsers) Following(context.Context, string) ([]user.Summary, error) {
	return s.following, nil
}

func (s *stubUsers) Activate(_ context.Context, username string) error {
	s.activated = append(s.activated, username)
	return nil
}

type routerFixture struct {
	handler http.Handler
	api     *mockauth.MockIdentityAPI
	creds   *mockauth.MemoryCredentialStore
	session *service.SessionService
	views   *service.FeedViews
	dreams  *stubDreams
	users   *stubUsers
	storage *mocks.MockObjectStorage
	drive   *mocks.MockStorageAuthenticator
	hist    *navigation.History
}

// newRouterFixture wires the full router over in-memory doubles. A non-empty
// credential starts the session signed in as id.
func newRouterFixture(t *testing.T, cred domainauth.Credential, id domainauth.Identity) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := testLogger()

	f := routerFixture{
		api:     mockauth.NewMockIdentityAPI(),
		creds:   mockauth.NewMemoryCredentialStore(cred),
		dreams:  &stubDreams{},
		users:   &stubUsers{},
		storage: mocks.NewMockObjectStorage(ctrl),
		drive:   mocks.NewMockStorageAuthenticator(ctrl),
		hist:    navigation.NewHistory("/"),
	}
	f.api.DefaultUser = id
	obs := service.Observability{Logger: logger}
	f.session = service.NewSessionService(service.SessionServiceOptions{
		Identity:    f.api,
		Credentials: f.creds,
		Obs:         obs,
	})
	if _, err := f.session.Resolve(context.Background()); err != nil && cred.Present() {
		t.Fatalf("resolve: %v", err)
	}

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Identity: f.api,
		Session:  f.session,
		Config:   service.AuthServiceConfig{Navigator: f.hist, Obs: obs},
	})
	guard := service.NewRouteGuard(service.RouteGuardOptions{
		Routes:  route.DefaultTable("/sign-in"),
		Session: f.session,
		Config:  service.RouteGuardConfig{Navigator: f.hist, Logger: logger},
	})
	feedSvc := service.NewFeedService(service.FeedServiceOptions{
		Dreams: f.dreams,
		Users:  f.users,
		Config: service.FeedServiceConfig{Obs: obs},
	})
	f.views = service.NewFeedViews(service.FeedViewsOptions{
		Feed:    feedSvc,
		Session: f.session,
		Config:  service.FeedViewsConfig{Interval: time.Hour, Logger: logger},
	})
	t.Cleanup(f.views.Close)
	compose := service.NewComposeService(service.ComposeServiceOptions{
		Dreams:  f.dreams,
		Session: f.session,
		Config: service.ComposeServiceConfig{
			Uploads: service.NewUploadService(service.UploadServiceOptions{Storage: f.storage, Auth: f.drive}),
			Views:   f.views,
			Obs:     obs,
		},
	})

	f.handler = NewRouter(RouterServices{
		Session:        f.session,
		Auth:           authSvc,
		Guard:          guard,
		Views:          f.views,
		Compose:        compose,
		Suggestions:    service.NewSuggestionService(service.SuggestionServiceOptions{Users: f.users, Session: f.session}),
		Admin:          service.NewAdminService(service.AdminServiceOptions{Users: f.users}),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
		SignInPath:     "/sign-in",
		Logger:         logger,
	})
	return f
}

func signedIn(t *testing.T, role domainauth.Role) routerFixture {
	t.Helper()
	return newRouterFixture(t, domainauth.NewCredential("tok"), domainauth.Identity{
		UserID:   "7",
		Username: "luna",
		Role:     role,
		Active:   true,
	})
}

func signedOut(t *testing.T) routerFixture {
	t.Helper()
	return newRouterFixture(t, domainauth.Credential{}, domainauth.Identity{})
}

func (f routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func browserGet(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return req
}

func apiRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept", "application/json")
	return req
}

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
