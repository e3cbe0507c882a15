package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// Messages surfaced for mapped error classes in place of the raw server text.
const (
	MsgAccessDenied  = "access denied"
	MsgResourceInUse = "resource is in use and cannot be deleted"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// wireError is the backend error envelope carried on non-2xx responses.
type wireError struct {
	Status    int          `json:"status"`
	Error     string       `json:"error"`
	Message   string       `json:"message"`
	Details   []FieldError `json:"details,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

// ValidationError is a 4xx rejection of a create or update, carrying
// field-level details for inline form display.
type ValidationError struct {
	StatusCode int
	Message    string
	Details    []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError is a 409 on delete: the resource is referenced elsewhere.
// Error returns the mapped message, not the raw server string; the server
// text is kept for logging.
type ConflictError struct {
	ServerMessage string
}

func (e *ConflictError) Error() string {
	return MsgResourceInUse
}

// AuthorizationError is a 403. Error returns the mapped "access denied"
// message; the server text is kept for logging.
type AuthorizationError struct {
	ServerMessage string
}

func (e *AuthorizationError) Error() string {
	return MsgAccessDenied
}

// NotFoundError is a 404 on a direct-id load, rendered inline rather than
// redirecting.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// NetworkError wraps a transport failure or an undecodable response body.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// APIError is the passthrough for server errors outside the mapped classes;
// its message is the server message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return e.Message
}

// mapError converts a non-2xx response into the client error taxonomy.
func mapError(method string, status int, body []byte) error {
	var we wireError
	if err := json.Unmarshal(body, &we); err != nil || (we.Status == 0 && we.Message == "") {
		return &NetworkError{Cause: errors.Errorf("unexpected response status %d", status)}
	}

	mutation := method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch

	switch {
	case status == http.StatusForbidden:
		return &AuthorizationError{ServerMessage: we.Message}
	case status == http.StatusNotFound:
		return &NotFoundError{Message: we.Message}
	case status == http.StatusConflict && method == http.MethodDelete:
		return &ConflictError{ServerMessage: we.Message}
	case status >= 400 && status < 500 && mutation:
		return &ValidationError{StatusCode: status, Message: we.Message, Details: we.Details}
	default:
		return &APIError{StatusCode: status, Message: we.Message}
	}
}

// IsValidation unwraps err as a ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	return ve, errors.As(err, &ve)
}

// IsConflict unwraps err as a ConflictError.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	return ce, errors.As(err, &ce)
}

// IsAuthorization unwraps err as an AuthorizationError.
func IsAuthorization(err error) (*AuthorizationError, bool) {
	var ae *AuthorizationError
	return ae, errors.As(err, &ae)
}

// IsNotFound unwraps err as a NotFoundError.
func IsNotFound(err error) (*NotFoundError, bool) {
	var ne *NotFoundError
	return ne, errors.As(err, &ne)
}

// IsNetwork unwraps err as a NetworkError.
func IsNetwork(err error) (*NetworkError, bool) {
	var ne *NetworkError
	return ne, errors.As(err, &ne)
}
