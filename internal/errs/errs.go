// Package errs defines the error shapes returned to API clients and the
// fiber error handler that renders them.
package errs

import (
	"net/http"
	"strings"
)

// FieldError is a field-level validation failure.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the JSON error body of every failed request.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func codeFor(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// NewBadRequestError creates a 400 with optional field errors.
func NewBadRequestError(message string, fieldErrors []FieldError) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusBadRequest),
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  fieldErrors,
	}
}

// NewValidationError is a 400 carrying the failed fields.
func NewValidationError(fieldErrors []FieldError) *HTTPError {
	return NewBadRequestError("Validation failed", fieldErrors)
}

// NewUnauthorizedError creates a 401.
func NewUnauthorizedError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusUnauthorized),
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewConflictError creates a 409.
func NewConflictError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusConflict),
		Message: message,
		Status:  http.StatusConflict,
	}
}

// NewNotFoundError creates a 404. The message never carries internal detail.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusNotFound),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInternalServerError creates a generic 500.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
