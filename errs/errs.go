// Package errs defines the error shape returned to API clients.
//
// Handlers return *HTTPError values; the router writes them as JSON with
// the embedded status code.
package errs

import (
	"net/http"
	"strings"
)

// FieldError is a single field-level validation failure.
//
//	{ "field": "name", "error": "must not exceed 128 characters" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the body of every non-2xx response.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError with the same status.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	return ok && t.Status == e.Status
}

// WithMessage returns a copy of e with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Errors:  e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts "Not Found" into "NOT_FOUND".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

func NewConflictError(message string) *HTTPError {
	return newHTTPError(http.StatusConflict, message)
}

func NewUnauthorizedError(message string) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, message)
}

func NewServiceUnavailableError(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message)
}

// NewValidationError creates a 422 carrying optional per-field errors.
func NewValidationError(message string, fieldErrors []FieldError) *HTTPError {
	err := newHTTPError(http.StatusUnprocessableEntity, message)
	err.Errors = fieldErrors
	return err
}

// NewInternalServerError hides the cause behind the generic status text.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
