package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/notionplus/internal/property"
)

var (
	// ErrUnknownField is returned when a field has no declared kind in the schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrReservedField is returned when a write targets one of the metadata fields.
	ErrReservedField = errors.New("reserved field is read-only")
	// ErrMissingProperty is returned when a page lacks a property the schema declares.
	ErrMissingProperty = errors.New("property missing from page")
	// ErrInvalidID is returned for collection or page ids that are not Notion ids.
	ErrInvalidID = errors.New("invalid notion id")
	// ErrNilSchema is returned when a model is requested without a schema.
	ErrNilSchema = errors.New("model: nil schema")
)

// PartialError reports an update that was applied for some fields only.
// The record returned alongside it reflects the fields that were written.
type PartialError struct {
	Applied []string
	Failed  []*property.FieldError
}

func (e *PartialError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("partial update: %d field(s) applied, %d failed (%s)",
		len(e.Applied), len(e.Failed), strings.Join(names, ", "))
}

// Unwrap exposes each field failure to errors.Is and errors.As.
func (e *PartialError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f)
	}
	return errs
}
