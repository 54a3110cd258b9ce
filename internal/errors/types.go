package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError reports input that violates a habit invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failure reading from or writing to the storage provider.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when an operation names a habit that does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("habit not found: %s", e.ID)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsPersistence reports whether err is or wraps a *PersistenceError.
func IsPersistence(err error) bool {
	var target *PersistenceError
	return stderrors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}
