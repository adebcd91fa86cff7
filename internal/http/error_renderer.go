package httpx

import (
	"log/slog"
	"net/http"

	apperrors "github.com/dreamsdoc/dreamsdoc-web/internal/errors"
)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W   http.ResponseWriter
	R   *http.Request
	Err error
	// SignInPath is where browsers go on unauthorized errors. Defaults to /sign-in.
	SignInPath string
	// Logger receives server-side failures (optional).
	Logger *slog.Logger
}

// RenderError writes err using the application's error taxonomy:
//
//   - unauthorized: browsers are sent to sign-in, API callers get 401
//   - validation: 422 with the offending field
//   - upstream and storage: 502 plus a toast trigger
//   - forbidden: rendered as not found, without a message
func RenderError(opts ErrorOpts) {
	err := opts.Err
	if err == nil {
		return
	}
	code := apperrors.GetCode(err)

	if code == apperrors.ErrCodeUnauthorized && IsBrowserRequest(opts.R) {
		signIn := opts.SignInPath
		if signIn == "" {
			signIn = "/sign-in"
		}
		redirectTo(opts.W, opts.R, signIn)
		return
	}

	status := apperrors.HTTPStatus(err)
	p := ErrorParams{Code: status, ErrCode: string(code)}
	switch code {
	case apperrors.ErrCodeForbidden, apperrors.ErrCodeNotFound:
		p.ErrCode = string(apperrors.ErrCodeNotFound)
		p.Err = errString(http.StatusText(http.StatusNotFound))
	case apperrors.ErrCodeValidation:
		p.Err = errString(apperrors.GetMessage(err, "Please check your input."))
		p.Field = apperrors.GetField(err)
	case apperrors.ErrCodeUpstream, apperrors.ErrCodeStorage:
		msg := apperrors.GetMessage(err, "Something went wrong. Please try again.")
		p.Err = errString(msg)
		triggerToast(opts.W, msg, "error")
	case "":
		p.ErrCode = string(apperrors.ErrCodeInternal)
		p.Err = errString("An error occurred. Please try again.")
	default:
		p.Err = errString(apperrors.GetMessage(err, http.StatusText(status)))
	}

	if status >= http.StatusInternalServerError && opts.Logger != nil {
		opts.Logger.ErrorContext(opts.R.Context(), "request failed",
			"method", opts.R.Method,
			"path", opts.R.URL.Path,
			"status", status,
			"error", err,
		)
	}
	WriteError(opts.W, p)
}

type errString string

func (e errString) Error() string { return string(e) }
