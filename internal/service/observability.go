package service

import (
	"log/slog"
	"time"

	"github.com/dreamsdoc/dreamsdoc-web/internal/observability/metrics"
)

// Observability groups the optional logging and metrics dependencies shared by services.
type Observability struct {
	Logger  *slog.Logger
	Metrics metrics.Sink
}

func (o Observability) logger(component string) *slog.Logger {
	l := o.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", component)
}

// emit records one operation; start is when it began.
func (o Observability) emit(component, operation string, start time.Time, err error) {
	metrics.EmitOperation(o.Metrics, metrics.OperationMetric{
		Component: component,
		Operation: operation,
		Duration:  time.Since(start),
		Err:       err,
	})
}
