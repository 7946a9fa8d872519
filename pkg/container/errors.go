package container

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every data container validation failure.
var ErrValidation = errors.New("invalid data container")

var (
	ErrUnknownType      = fmt.Errorf("%w: unknown type", ErrValidation)
	ErrIncompatibleKeys = fmt.Errorf("%w: incompatible keys", ErrValidation)
	ErrInvalidKey       = fmt.Errorf("%w: invalid key", ErrValidation)
	ErrMissingKey       = fmt.Errorf("%w: missing key", ErrValidation)
	ErrUnsortedTimeAxis = fmt.Errorf("%w: unsorted time axis", ErrValidation)
	ErrInvalidShape     = fmt.Errorf("%w: invalid shape", ErrValidation)
	ErrUnsupportedValue = fmt.Errorf("%w: unsupported value type", ErrValidation)
)

// ValidationError describes a single schema violation.
// It matches both its specific sentinel and ErrValidation with errors.Is.
type ValidationError struct {
	Err    error  // one of the Err* sentinels
	Type   Type   // container type being checked
	Key    string // offending field, if any
	Reason string // human-readable message
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(sentinel error, t Type, key, format string, args ...any) *ValidationError {
	return &ValidationError{
		Err:    sentinel,
		Type:   t,
		Key:    key,
		Reason: fmt.Sprintf(format, args...),
	}
}
