package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports malformed input rejected at the engine boundary.
// Business conditions (ineligibility, unfilled shifts, compliance violations)
// are never reported this way; they are returned as data.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Is lets callers use errors.Is(err, ErrInvalidInput)
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid builds an InvalidInputError for the given field
func Invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
