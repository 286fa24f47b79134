package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across layers. Match them with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrStorage          = errors.New("storage failure")
	ErrCorruptState     = errors.New("corrupt session state")
	ErrSourceUnreadable = errors.New("source image unreadable")
	ErrDestinationWrite = errors.New("destination write failed")
)

// ValidationError reports bad input shape or content, e.g. a malformed tag
// or an out-of-range image id.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a *ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps an I/O failure on the session, tag, sidecar or image files.
// Operations that fail with a StorageError are retryable.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports ErrStorage as a match; the wrapped cause is reachable through Unwrap.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// PublicMessage summarizes err for API clients. Validation and not-found
// messages pass through; storage details and unexpected failures stay in the
// log.
func PublicMessage(err error) string {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return err.Error()
	case errors.Is(err, ErrStorage):
		return "could not access files on disk, please retry"
	default:
		return "internal error"
	}
}

// NotFoundf returns an error wrapping ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
