package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/fluency-harness/internal/identity"
	"github.com/mcoot/fluency-harness/internal/model"
	"github.com/mcoot/fluency-harness/internal/services/auth"
)

// APIError is the body of an error response
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error kinds
const (
	KindAuthFailure       = "auth_failure"
	KindValidationFailure = "validation_failure"
	KindConflict          = "conflict"
	KindUnauthenticated   = "unauthenticated"
	KindResolutionFailure = "resolution_failure"
	KindBackendFailure    = "backend_failure"
	KindRateLimited       = "rate_limited"
)

// MessageInvalidCredentials is deliberately the same for unknown login IDs
// and wrong passwords
const MessageInvalidCredentials = "Login ID and/or password is incorrect."

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusBadRequest, APIError{KindAuthFailure, MessageInvalidCredentials}}
	case errors.Is(err, auth.ErrUnknownRole):
		return &httpError{http.StatusBadRequest, APIError{KindValidationFailure, "Role must be student or instructor"}}
	case errors.Is(err, auth.ErrEmptyLoginID):
		return &httpError{http.StatusBadRequest, APIError{KindValidationFailure, "Login ID cannot be empty"}}
	case errors.Is(err, auth.ErrUnknownCondition):
		return &httpError{http.StatusBadRequest, APIError{KindValidationFailure, "Condition is not one of the configured conditions"}}

	// Map model errors
	case errors.Is(err, model.ErrLoginIDTaken):
		return &httpError{http.StatusConflict, APIError{KindConflict, "Login ID is already taken"}}
	case errors.Is(err, model.ErrInvalidOutcome):
		return &httpError{http.StatusBadRequest, APIError{KindValidationFailure, err.Error()}}

	// Map identity errors
	case errors.Is(err, identity.ErrResolutionFailed):
		return &httpError{http.StatusServiceUnavailable, APIError{KindResolutionFailure, "Could not load your account, please try again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{KindBackendFailure, "Internal server error"}}
	}
}

// NewValidationError creates a validation error with a specific message
func NewValidationError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{KindValidationFailure, message}}
}

// NewUnauthenticatedError creates an error for API calls without a student session
func NewUnauthenticatedError() error {
	return &httpError{http.StatusUnauthorized, APIError{KindUnauthenticated, "Student login required"}}
}

// NewRateLimitedError creates an error for clients that have made too many login attempts
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{KindRateLimited, "Too many login attempts, please wait and try again"}}
}

// NewBackendError creates a generic backend error with the given message
func NewBackendError(message string) error {
	return &httpError{http.StatusInternalServerError, APIError{KindBackendFailure, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return NewBackendError("Internal server error")
}
