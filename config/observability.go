package config

import (
	"log/slog"
	"strings"
)

// ObservabilityConfig groups configuration that controls metrics and logging.
type ObservabilityConfig struct {
	MetricsEnabled bool   `env:"OBSERVABILITY_METRICS_ENABLED" envDefault:"true"`
	MetricsPath    string `env:"OBSERVABILITY_METRICS_PATH"    envDefault:"/metrics"`
	LogLevel       string `env:"OBSERVABILITY_LOG_LEVEL"       envDefault:"info"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityConfig) Sanitize() {
	c.MetricsPath = strings.TrimSpace(c.MetricsPath)
	if !strings.HasPrefix(c.MetricsPath, "/") {
		c.MetricsPath = "/metrics"
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c *ObservabilityConfig) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
