// Package errs defines the error taxonomy shared by the scheduler, the
// estimator and the engine. Callers discriminate with errors.As.
package errs

import (
	"errors"
	"fmt"
)

// ErrValidation indicates caller input was rejected before any I/O.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds an *ErrValidation with a formatted reason.
func Validation(field, format string, args ...any) error {
	return &ErrValidation{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ErrNotFound indicates an unknown user, item or result.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ErrStorage wraps a failure of the persistence layer.
type ErrStorage struct {
	Op  string
	Err error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *ErrStorage) Unwrap() error { return e.Err }

// ErrConflict indicates a concurrent write won the compare-and-swap on an
// item's version.
type ErrConflict struct {
	UserID string
	ItemID string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("concurrent update of %s/%s", e.UserID, e.ItemID)
}

// IsValidation reports whether err wraps an *ErrValidation.
func IsValidation(err error) bool {
	var v *ErrValidation
	return errors.As(err, &v)
}

// IsNotFound reports whether err wraps an *ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsStorage reports whether err wraps an *ErrStorage.
func IsStorage(err error) bool {
	var s *ErrStorage
	return errors.As(err, &s)
}

// IsConflict reports whether err wraps an *ErrConflict.
func IsConflict(err error) bool {
	var c *ErrConflict
	return errors.As(err, &c)
}
