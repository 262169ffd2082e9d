package validators

import (
	"errors"
	"strings"
)

var (
	// ErrUnsupportedType is returned when Validate receives something that is
	// not a struct or pointer to struct.
	ErrUnsupportedType = errors.New("unsupported type for validation")
	// ErrInvalidRequest is the sentinel every *ValidationError unwraps to.
	ErrInvalidRequest = errors.New("invalid request")
)

// FieldViolation describes one failed rule on one field. Field is the JSON
// name of the field.
type FieldViolation struct {
	Field   string
	Rule    string
	Message string
}

// ValidationError collects the violations of a single Validate call. Its
// Error() is a human-readable message safe to return to API callers.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}
