package httpx

import (
	"net/http"

	"github.com/dreamsdoc/dreamsdoc-web/internal/service"
)

// HealthHandlers serves readiness and liveness checks.
type HealthHandlers struct {
	Session *service.SessionService
}

type healthResponse struct {
	Status  string `json:"status"`
	Session string `json:"session,omitempty"`
}

// Health returns 200 while the process is serving. The body reports whether
// the startup identity resolution has finished; it never gates readiness.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	resp := healthResponse{Status: "ok"}
	if h.Session != nil {
		resp.Session = "ready"
		if h.Session.Snapshot().Resolving {
			resp.Session = "resolving"
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
