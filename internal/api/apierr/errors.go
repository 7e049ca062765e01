package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/molehunt/molehunt/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeIncorrectPassphrase  = "INCORRECT_PASSPHRASE"
	CodeEmptyCredentials     = "EMPTY_CREDENTIALS"
	CodeIncorrectCredentials = "INCORRECT_CREDENTIALS"
	CodeNeedPassphrase       = "NEED_PASSPHRASE"
	CodeNeedLogin            = "NEED_LOGIN"
	CodeInternalError        = "INTERNAL_ERROR"
)

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

// toHTTPError converts an error to an httpError. Storage failures and
// unknown location IDs deliberately fall through to a 500: they indicate
// broken data or a broken deployment, not a player mistake.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, auth.ErrIncorrectPassphrase):
		return &httpError{http.StatusUnauthorized, APIError{CodeIncorrectPassphrase, "Incorrect passphrase"}}
	case errors.Is(err, auth.ErrEmptyCredentials):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyCredentials, "Username and password are required"}}
	case errors.Is(err, auth.ErrIncorrectCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeIncorrectCredentials, "Incorrect username or password"}}
	case errors.Is(err, auth.ErrNeedPassphrase):
		return &httpError{http.StatusUnauthorized, APIError{CodeNeedPassphrase, "Passphrase required"}}
	case errors.Is(err, auth.ErrNeedLogin):
		return &httpError{http.StatusUnauthorized, APIError{CodeNeedLogin, "Login required"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
