package httpx

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dreamsdoc/dreamsdoc-web/internal/ports"
	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// SuggestionHandlers serves follow suggestions.
type SuggestionHandlers struct {
	Svc          *service.SuggestionService
	DefaultLimit int
	Logger       *slog.Logger
}

// List returns up to ?limit= suggestions.
func (h *SuggestionHandlers) List(w http.ResponseWriter, r *http.Request) {
	def := h.DefaultLimit
	if def <= 0 {
		def = service.DefaultSuggestionLimit
	}
	limit := parseIntQuery(r, "limit", def)
	out, err := h.Svc.Suggest(r.Context(), limit)
	if err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err, Logger: h.Logger})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}

// AdminHandlers serves the admin panel.
type AdminHandlers struct {
	Svc    *service.AdminService
	Logger *slog.Logger
}

// Users lists users for ?page= and ?size=.
func (h *AdminHandlers) Users(w http.ResponseWriter, r *http.Request) {
	page := ports.PageParams{
		Page: max(parseIntQuery(r, "page", 0), 0),
		Size: min(max(parseIntQuery(r, "size", 50), 1), 200),
	}
	users, err := h.Svc.ListUsers(r.Context(), page)
	if err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err, Logger: h.Logger})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": users, "page": page.Page, "size": page.Size})
}

// ToggleActivation flips a user's activation state.
func (h *AdminHandlers) ToggleActivation(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.ToggleActivation(r.Context(), r.PathValue("username")); err != nil {
		RenderError(ErrorOpts{W: w, R: r, Err: err, Logger: h.Logger})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
