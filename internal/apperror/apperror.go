// Package apperror defines the application's error taxonomy.
//
// Every failure that crosses a layer boundary is one of four kinds:
// unauthenticated (bad or missing credential), validation (bad input),
// not found (no matching row), or store (persistence-adapter fault).
// Handlers branch on the kind with errors.Is and never inspect
// driver-specific error values.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrStore           = errors.New("store error")
)

type AppError struct {
	Err     error  // sentinel (possibly joined with the underlying cause)
	Message string // human-readable message, safe to return to the client
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthenticated returns an AppError for a missing, malformed, or expired
// credential. The message is what the client sees; it must never carry
// verification internals.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Store wraps a persistence-adapter fault. The cause stays on the error chain
// for server-side logs; the message is generic so no internal fault detail
// reaches the client.
func Store(cause error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrStore, cause),
		Message: "storage failure",
	}
}
