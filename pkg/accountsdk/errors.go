package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes shared between the server and the SDK.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeValidationError     = "validation_error"
	ErrorCodeAuthenticationError = "authentication_error"
	ErrorCodeAuthorizationError  = "authorization_error"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeServerError         = "server_error"
)

// APIError represents an error response from the accounts service. It
// implements the error interface and is used both by the server (to write
// HTTP responses) and by the SDK client (to represent parsed errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "validation_error")
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
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// missing required fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrEmailTaken is returned when registering with an email that already
	// belongs to an account.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeValidationError,
		Description: "email already in use",
	}

	// ErrInvalidCredentials is returned on authentication failure. Unknown
	// email and wrong password produce this same error so callers cannot
	// probe which addresses are registered.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAuthenticationError,
		Description: "invalid login credentials",
	}

	// ErrInvalidToken is returned when the bearer token is missing, expired
	// or fails verification.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "invalid or missing access token",
	}

	// ErrForbidden is returned when an authenticated caller is not permitted
	// to perform the operation. Deliberately covers both the not-the-owner
	// case and the wrong re-auth password on delete; the two are
	// indistinguishable on the wire.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAuthorizationError,
		Description: "not permitted to perform this operation",
	}

	// ErrNotFound is returned when the target record does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "record not found",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
