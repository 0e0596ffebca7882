// Package apperrors defines the error kinds the core surfaces to callers.
// Handlers translate them to HTTP statuses; the services never recover from
// them silently.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced post, comment or user does not
// exist. Wrap it with context: fmt.Errorf("post %s: %w", id, ErrNotFound).
var ErrNotFound = errors.New("not found")

// ValidationError reports an out-of-range or malformed field value.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports an operation applied to an entity in a state
// that does not admit it, e.g. accepting an answer on a non-question post.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// InvalidState builds an InvalidStateError from a format string.
func InvalidState(format string, args ...any) *InvalidStateError {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// ErrInvalidRating is the ValidationError returned for rating values
// outside 1..5.
var ErrInvalidRating = &ValidationError{Msg: "rating value must be between 1 and 5"}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidState reports whether err is (or wraps) an InvalidStateError.
func IsInvalidState(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
