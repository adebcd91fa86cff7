package errors

import (
	"context"
	"errors"
	"net/http"
)

// FromStatus maps a backend HTTP status to an AppError.
// Any 2xx status is success and yields nil; the backend answers some successful
// writes with 201 or 202 instead of 200.
func FromStatus(status int, message string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if message == "" {
		message = http.StatusText(status)
	}
	switch {
	case status == http.StatusUnauthorized:
		return Unauthorized(message)
	case status == http.StatusForbidden:
		return Forbidden(message)
	case status == http.StatusNotFound:
		return NotFound(message)
	case status == http.StatusConflict:
		return Conflict(message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return Validation(message)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return &AppError{Code: ErrCodeTimeout, Message: message}
	default:
		return &AppError{Code: ErrCodeUpstream, Message: message}
	}
}

// MapTransportError maps a failure to reach a remote service into an AppError.
// Context errors keep their own codes so callers can tell a canceled view
// apart from an unreachable backend. Existing AppErrors pass through.
func MapTransportError(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}
	return Wrap(err, code, message)
}

// statusClientClosedRequest is the nginx convention for a caller that went away.
const statusClientClosedRequest = 499

// HTTPStatus returns the status this client answers with for an error.
// Forbidden renders as 404: a role-restricted view is never revealed.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeForbidden:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeUpstream, ErrCodeStorage:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
