package httpx

import (
	"log/slog"
	"mime"
	"net/http"

	domainauth "github.com/dreamsdoc/dreamsdoc-web/internal/domain/auth"
	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// SessionHandlers serves the session state and the sign-in, sign-up and
// sign-out flows.
type SessionHandlers struct {
	Session    *service.SessionService
	Auth       *service.AuthService
	SignInPath string
	HomePath   string
	Logger     *slog.Logger
}

type sessionResponse struct {
	Identity      domainauth.Identity `json:"identity"`
	Resolving     bool                `json:"resolving"`
	Authenticated bool                `json:"authenticated"`
}

func (h *SessionHandlers) state(r *http.Request, st domainauth.State) sessionResponse {
	return sessionResponse{
		Identity:      st.Identity,
		Resolving:     st.Resolving,
		Authenticated: h.Session.Authenticated(r.Context()),
	}
}

// Get returns the current session state. With ?wait=1 it blocks until the
// identity is resolved.
func (h *SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	st := h.Session.Snapshot()
	if r.URL.Query().Get("wait") == "1" {
		var err error
		if st, err = h.Session.WaitResolved(r.Context()); err != nil {
			return
		}
	}
	WriteJSON(w, http.StatusOK, h.state(r, st))
}

// Resolve re-runs identity resolution on demand.
func (h *SessionHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Session.Resolve(r.Context()); err != nil {
		h.Logger.InfoContext(r.Context(), "on-demand identity resolution failed", "error", err)
	}
	WriteJSON(w, http.StatusOK, h.state(r, h.Session.Snapshot()))
}

// View describes a public auth page.
func (h *SessionHandlers) View(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"view":          name,
			"authenticated": h.Session.Authenticated(r.Context()),
		})
	}
}

// settingsPages are the sections of the settings view.
var settingsPages = map[string]bool{"profile": true, "account": true, "privacy": true}

// Settings describes the settings view of the signed-in user. The section
// defaults to profile; unknown sections are not found.
func (h *SessionHandlers) Settings(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	if page == "" {
		page = "profile"
	}
	if !settingsPages[page] {
		RenderError(ErrorOpts{W: w, R: r, Err: apperrors.NotFoundf("settings page %q", page), Logger: h.Logger})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"view":     "settings",
		"page":     page,
		"identity": h.Session.Snapshot().Identity,
	})
}

// SignIn accepts a JSON or form-encoded sign-in.
func (h *SessionHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in domainauth.SignInInput
	if isJSON(r) {
		if !DecodeJSON(w, r, &in) {
			return
		}
	} else {
		in.Username = r.PostFormValue("username")
		in.Password = r.PostFormValue("password")
	}

	id, err := h.Auth.SignIn(r.Context(), in)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if IsBrowserRequest(r) {
		redirectTo(w, r, h.home())
		return
	}
	WriteJSON(w, http.StatusOK, id)
}

// SignUp accepts a JSON or form-encoded registration.
func (h *SessionHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var in domainauth.SignUpInput
	if isJSON(r) {
		if !DecodeJSON(w, r, &in) {
			return
		}
	} else {
		in = domainauth.SignUpInput{
			Name:     r.PostFormValue("name"),
			Username: r.PostFormValue("username"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
			Role:     r.PostFormValue("role"),
			Key:      r.PostFormValue("key"),
		}
	}
	if in.Role == "" {
		in.Role = "ROLE_USER"
	}

	if err := h.Auth.SignUp(r.Context(), in); err != nil {
		h.renderError(w, r, err)
		return
	}
	if IsBrowserRequest(r) {
		redirectTo(w, r, h.signIn())
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "registered"})
}

// SignOut ends the session.
func (h *SessionHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.SignOut(r.Context()); err != nil {
		h.renderError(w, r, err)
		return
	}
	if IsBrowserRequest(r) {
		redirectTo(w, r, h.signIn())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	RenderError(ErrorOpts{W: w, R: r, Err: err, SignInPath: h.signIn(), Logger: h.Logger})
}

func (h *SessionHandlers) signIn() string {
	if h.SignInPath == "" {
		return "/sign-in"
	}
	return h.SignInPath
}

func (h *SessionHandlers) home() string {
	if h.HomePath == "" {
		return "/"
	}
	return h.HomePath
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
