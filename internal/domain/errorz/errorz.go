package errorz

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidIntent = errors.New("invalid intent")
	ErrValidation    = errors.New("validation error")
	ErrProvider      = errors.New("provider error")

	// ErrGuard is wrapped by every transition guard failure.
	ErrGuard = errors.New("transition not allowed")

	ErrWrongView          = fmt.Errorf("%w: wrong view", ErrGuard)
	ErrIntroPending       = fmt.Errorf("%w: intro not finished", ErrGuard)
	ErrNoQuestionSelected = fmt.Errorf("%w: no question selected", ErrGuard)
	ErrEmptyAnswer        = fmt.Errorf("%w: empty answer", ErrGuard)
	ErrSubmitInFlight     = fmt.Errorf("%w: submission in flight", ErrGuard)
	ErrLoginRequired      = fmt.Errorf("%w: login required", ErrGuard)
	ErrAlreadyLoggedIn    = fmt.Errorf("%w: already logged in", ErrGuard)
)

// ValidationError is a field-level error shown next to the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ShareError is raised only when both the platform share and the clipboard
// fallback failed. Alert is the text for the blocking alert.
type ShareError struct {
	Kind  string
	Alert string
	Err   error
}

func (e *ShareError) Error() string {
	return fmt.Sprintf("share %s: %v", e.Kind, e.Err)
}

func (e *ShareError) Unwrap() error { return e.Err }
