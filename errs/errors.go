// Package errs holds the error taxonomy shared by the cart, checkout and proxy layers.
// Handlers classify with errors.As / errors.Is and never let a raw upstream error
// reach a response body unconverted.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Error message constants.
const (
	MsgMissingFields      = "Please fill in all required fields."
	MsgAuthRequired       = "Please log in to place an order."
	MsgOrderFailed        = "Failed to place order"
	MsgBackendUnavailable = "Cannot connect to the server."
	MsgInvalidResponse    = "Invalid response from server"
)

var (
	// ErrPersistenceCorrupt marks unreadable persisted cart data. It is logged and
	// recovered by starting from an empty cart, never returned to callers.
	ErrPersistenceCorrupt = errors.New("persisted cart state is corrupted")

	ErrBackendNotConfigured = errors.New("backend API URL is not configured")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	ErrAlreadySubmitted     = errors.New("order already placed for this checkout")
	ErrInvalidTransition    = errors.New("invalid checkout state transition")
	ErrSessionNotFound      = errors.New("session not found")
)

// ValidationError reports missing or malformed user input.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

func NewValidation(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// AuthRequiredError is returned when an action needs a session token that is absent.
type AuthRequiredError struct {
	Message    string
	RedirectTo string
}

func (e *AuthRequiredError) Error() string {
	return e.Message
}

func NewAuthRequired() *AuthRequiredError {
	return &AuthRequiredError{Message: MsgAuthRequired, RedirectTo: "/login"}
}

// UpstreamUnavailableError covers network failures and non-JSON responses from the backend.
type UpstreamUnavailableError struct {
	Op     string
	Status int    // 0 when the request never completed
	Raw    string // excerpt of a non-JSON body
	Err    error
}

func (e *UpstreamUnavailableError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: backend returned status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamUnavailableError) Unwrap() error {
	return e.Err
}

// NetworkFailure reports whether the request never reached the backend.
func (e *UpstreamUnavailableError) NetworkFailure() bool {
	return e.Status == 0
}

// UpstreamRejectedError means the backend answered with a failure or success:false payload.
type UpstreamRejectedError struct {
	Op      string
	Status  int
	Message string
	Body    []byte
}

func (e *UpstreamRejectedError) Error() string {
	return e.Message
}

// UserMessage picks the message to show a user, preferring backend text.
func UserMessage(err error, fallback string) string {
	var rejected *UpstreamRejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	var auth *AuthRequiredError
	if errors.As(err, &auth) {
		return auth.Message
	}
	return fallback
}
