package config

import (
	"strings"
	"time"
)

// HTTPConfig contains local HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:3000"`

	// SignInPath is where unauthenticated visitors are sent.
	SignInPath string `env:"HTTP_SIGN_IN_PATH" envDefault:"/sign-in"`

	// AllowedOrigins restricts websocket upgrades; empty means same-origin only.
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" envDefault:""`

	// MaxUploadBytes caps multipart post submissions.
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"33554432"`

	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if !strings.HasPrefix(h.SignInPath, "/") {
		h.SignInPath = "/sign-in"
	}
	if h.MaxUploadBytes <= 0 {
		h.MaxUploadBytes = 32 << 20
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
	origins := h.AllowedOrigins[:0]
	for _, o := range h.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	h.AllowedOrigins = origins
}
