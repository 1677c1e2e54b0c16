package webauth

import (
	"encoding/json"
	"net/http"
)

// Error codes reported on the HTTP boundary.
const (
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeInvalidCreds  = "invalid_credentials"
	ErrCodeUsernameTaken = "username_taken"
	ErrCodeEmailExists   = "email_exists"
	ErrCodeMissingField  = "missing_field"
)

// AuthError is a structured error for HTTP responses: a stable code for
// clients to branch on, a human message, and optionally the offending form
// field.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Field   string `json:"field,omitempty"`
}

func NewAuthError(code, message, field string) *AuthError {
	return &AuthError{Code: code, Message: message, Field: field}
}

func (e *AuthError) Error() string {
	if e.Field != "" {
		return e.Code + " (" + e.Field + "): " + e.Message
	}
	return e.Code + ": " + e.Message
}

// AuthErrorHandler lets callers take over rendering of an AuthError. Return
// true if the response was written.
type AuthErrorHandler func(err *AuthError, w http.ResponseWriter, r *http.Request) bool

// WriteAuthError renders err as the default JSON error response.
func WriteAuthError(w http.ResponseWriter, statusCode int, err *AuthError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(err)
}
