package config

import (
	"errors"
	"fmt"
)

// FieldError reports a user-supplied value that fails a model constraint.
// It names the offending field so the CLI and TUI can point at the right
// input instead of showing a generic failure.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError creates a validation error for the named field.
func NewFieldError(field, format string, args ...any) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// FieldOf returns the field name if err carries one, otherwise "".
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
