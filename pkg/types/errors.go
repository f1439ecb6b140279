package types

import (
	"errors"
	"fmt"
)

// Domain error kinds. Operations wrap these with detail; test with errors.Is.
var (
	// ErrValidation reports a missing or invalid required field.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate reports a house number already used in the same village.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound reports an operation that targets a non-existent record.
	ErrNotFound = errors.New("record not found")
	// ErrStorage reports a failure of the underlying persistence engine.
	ErrStorage = errors.New("storage failure")
)

// StepError names the step of a multi-record sequence that failed. The
// enclosing transaction is rolled back, so none of the sequence is applied.
type StepError struct {
	Op         string // e.g. "delete", "add"
	Collection string
	Key        any
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s %s %v: %v", e.Op, e.Collection, e.Key, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Validationf returns an error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
