package property

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedKind is returned for kinds outside the supported set.
	ErrUnsupportedKind = errors.New("unsupported property kind")
	// ErrReadOnlyKind is returned when encoding a kind Notion computes itself.
	ErrReadOnlyKind = errors.New("property kind is read-only")
	// ErrInvalidValue is returned when a Go value does not fit its kind.
	ErrInvalidValue = errors.New("invalid value for property kind")
	// ErrKindMismatch is returned when a wire property is not of the declared kind.
	ErrKindMismatch = errors.New("property does not match declared kind")
)

// FieldError ties a codec failure to the schema field that caused it.
type FieldError struct {
	Field string
	Kind  Kind
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q (%s): %v", e.Field, e.Kind, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
