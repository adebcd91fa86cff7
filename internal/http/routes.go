package httpx

import (
	"log/slog"
	"net/http"

	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Session     *service.SessionService
	Auth        *service.AuthService
	Guard       *service.RouteGuard
	Views       *service.FeedViews
	Compose     *service.ComposeService
	Suggestions *service.SuggestionService
	Admin       *service.AdminService
	// Optional: Prometheus handler and request observer
	MetricsHandler http.Handler
	MetricsPath    string
	Observer       HTTPObserver
	// Configuration
	SignInPath      string
	AllowedOrigins  []string
	MaxUploadBytes  int64
	SuggestionLimit int
	Logger          *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router. Every path except the
// metrics endpoint passes through the route guard.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	signIn := services.SignInPath
	if signIn == "" {
		signIn = "/sign-in"
	}

	mux := http.NewServeMux()

	sessionHandlers := &SessionHandlers{
		Session:    services.Session,
		Auth:       services.Auth,
		SignInPath: signIn,
		Logger:     logger,
	}
	feedHandlers := &FeedHandlers{
		Views:          services.Views,
		Compose:        services.Compose,
		SignInPath:     signIn,
		MaxUploadBytes: services.MaxUploadBytes,
		Logger:         logger,
	}
	streamHandlers := &StreamHandlers{Views: services.Views, AllowedOrigins: services.AllowedOrigins, Logger: logger}

	registerSessionRoutes(mux, sessionHandlers, signIn)
	registerFeedRoutes(mux, feedHandlers)
	mux.HandleFunc("GET /ws", streamHandlers.Feed)
	if services.Suggestions != nil {
		h := &SuggestionHandlers{Svc: services.Suggestions, DefaultLimit: services.SuggestionLimit, Logger: logger}
		mux.HandleFunc("GET /suggestions", h.List)
	}
	if services.Admin != nil {
		registerAdminRoutes(mux, &AdminHandlers{Svc: services.Admin, Logger: logger})
	}
	health := &HealthHandlers{Session: services.Session}
	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)

	var bypass []string
	if services.MetricsHandler != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, services.MetricsHandler)
		bypass = append(bypass, path)
	}

	// Metrics wraps the mux directly so it sees the request the mux
	// stamps with the matched pattern.
	handler := Metrics(services.Observer)(mux)
	if services.Guard != nil {
		handler = Guard(GuardOptions{Guard: services.Guard, SignInPath: signIn, Bypass: bypass})(handler)
	}
	handler = BrowserDetection()(handler)
	handler = Logging(logger)(handler)
	return Recover(logger)(handler)
}

func registerSessionRoutes(mux *http.ServeMux, h *SessionHandlers, signIn string) {
	mux.HandleFunc("GET /session", h.Get)
	mux.HandleFunc("POST /session", h.Resolve)
	mux.HandleFunc("GET "+signIn, h.View("sign-in"))
	mux.HandleFunc("POST "+signIn, h.SignIn)
	mux.HandleFunc("GET /sign-up", h.View("sign-up"))
	mux.HandleFunc("POST /sign-up", h.SignUp)
	mux.HandleFunc("POST /sign-out", h.SignOut)
	mux.HandleFunc("GET /settings", h.Settings)
	mux.HandleFunc("GET /settings/{page}", h.Settings)
}

func registerFeedRoutes(mux *http.ServeMux, h *FeedHandlers) {
	mux.HandleFunc("GET /{$}", h.Global)
	mux.HandleFunc("GET /explore", h.Global)
	mux.HandleFunc("GET /post/{id}", h.Post)
	mux.HandleFunc("GET /users/{id}", h.User)
	mux.HandleFunc("GET /hashtag/{tag}", h.Hashtag)
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("POST /dreams", h.Create)
	mux.HandleFunc("DELETE /dreams/{id}", h.Delete)
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers) {
	mux.HandleFunc("GET /admin", h.Users)
	mux.HandleFunc("POST /admin/users/{username}/activate", h.ToggleActivation)
}
