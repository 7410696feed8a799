package marketapi

import (
	"fmt"
	"net/http"

	"github.com/northmarket/bazaar/pkg/httpx"
)

// Error codes used in API error responses.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeUnauthorized   = "unauthorized"
	ErrorCodeForbidden      = "forbidden"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeConflict       = "conflict"
	ErrorCodeServerError    = "server_error"
)

// APIError is the error envelope every endpoint returns on failure. It
// implements the error interface so handlers and clients can share it.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "not_found")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// fails validation.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	// ErrUnauthorized is returned when a credential is missing or invalid
	// on a route that requires authentication.
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "authentication required",
	}

	// ErrInvalidCredentials is returned when login fails. Deliberately does
	// not reveal whether the email or the password was wrong.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "invalid email or password",
	}

	// ErrForbidden is returned when the caller is authenticated but does
	// not own the resource being mutated.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "you do not have permission to modify this resource",
	}

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "the requested resource does not exist",
	}

	// ErrUsernameTaken is returned when registration or a profile update
	// collides with an existing username.
	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "username is already taken",
	}

	// ErrEmailTaken is returned when registration or a profile update
	// collides with an existing email.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "email is already registered",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewValidationError wraps a validation failure as an invalid_request error,
// keeping the field-level detail from the validator.
func NewValidationError(err error) *APIError {
	return &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: err.Error(),
	}
}
