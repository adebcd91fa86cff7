package metrics

import (
	"time"

	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
	obserrors "github.com/dreamsdoc/dreamsdoc-web/internal/observability/errors"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Sink records operation outcomes.
type Sink interface {
	RecordOperation(component, operation, result, errorClass string, d time.Duration)
}

// OperationMetric captures one completed service operation.
type OperationMetric struct {
	Component string
	Operation string
	Result    string
	Duration  time.Duration
	Err       error
}

// EmitOperation emits standardised operation metrics. The result defaults
// from Err when left empty.
func EmitOperation(sink Sink, in OperationMetric) {
	if sink == nil {
		return
	}
	if in.Result == "" {
		in.Result = ResultSuccess
		if in.Err != nil {
			in.Result = ResultError
		}
	}

	var class string
	if in.Err != nil && in.Result == ResultError {
		class = ErrorClass(in.Err)
	}
	sink.RecordOperation(in.Component, in.Operation, in.Result, class, in.Duration)
}

// ErrorClass prefers the application error code and falls back to the
// innermost error type.
func ErrorClass(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return obserrors.Classify(err)
}
