// ABOUTME: Error taxonomy for workout service operations.
// ABOUTME: Maps HTTP status codes to validation/conflict/not-found/transient errors.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports bad input caught locally or rejected by the server
// with a 400. The operation was never (or not validly) applied.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports an operation that collided with the server's state:
// starting a session while one is active, finishing an already-finished
// session. Usually means the client's view is stale; refresh and move on.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError reports a missing session, exercise, or set. A not-found
// active session is the normal "nothing in progress" steady state.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// TransientError reports a network or service failure. Retryable by
// re-issuing the same intent; the store surfaces it without auto-retry.
type TransientError struct {
	Msg string
	Err error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *TransientError) Unwrap() error { return e.Err }

// Validationf builds a ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds a ConflictError.
func Conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFoundError.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsTransient reports whether err is a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// errorFromStatus converts a non-2xx response into the taxonomy.
func errorFromStatus(status int, body string) error {
	switch {
	case status == http.StatusBadRequest:
		return &ValidationError{Msg: body}
	case status == http.StatusNotFound:
		return &NotFoundError{Msg: body}
	case status == http.StatusConflict:
		return &ConflictError{Msg: body}
	default:
		return &TransientError{Msg: fmt.Sprintf("service error (status %d): %s", status, body)}
	}
}
