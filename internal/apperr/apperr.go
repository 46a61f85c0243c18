// Package apperr defines the error vocabulary shared by the store, the
// seeding driver and the HTTP layer. Callers branch on these with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the addressed record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict indicates a conditional update lost to a
	// concurrent writer.
	ErrVersionConflict = errors.New("version conflict")

	// ErrLocked indicates the record is admin-locked against all mutation.
	ErrLocked = errors.New("record locked")

	// ErrInvalidInput indicates a payload failed validation before any
	// store interaction.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the content store cannot be reached at
	// all. Fatal to a whole batch, never recorded per record.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a missing or malformed payload field.
type ValidationError struct {
	Kind    string
	ID      string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s %q: field %s: %s", e.Kind, e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.ID, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewValidationError(kind, id, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, ID: id, Field: field, Message: message}
}

// StoreError wraps a driver-level failure that makes the store unusable.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsVersionConflict(err error) bool { return errors.Is(err, ErrVersionConflict) }
func IsLocked(err error) bool          { return errors.Is(err, ErrLocked) }
func IsValidation(err error) bool      { return errors.Is(err, ErrInvalidInput) }
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
