package errors

import (
	"errors"
	"fmt"
)

// PersistenceError represents a failure reading or writing a local storage
// slot. Malformed stored values are logged and treated as empty state; they
// are never surfaced to the user.
type PersistenceError struct {
	Slot string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage slot %q: %v", e.Slot, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a PersistenceError for the given slot.
func NewPersistenceError(slot string, err error) *PersistenceError {
	return &PersistenceError{Slot: slot, Err: err}
}

// IsPersistenceError reports whether err is a PersistenceError (even when wrapped).
func IsPersistenceError(err error) bool {
	var persistErr *PersistenceError
	return errors.As(err, &persistErr)
}
