// Package schema declares which Notion property kind backs each field of a
// collection.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dvloznov/notionplus/internal/property"
)

// Reserved field names, present in every schema.
const (
	FieldID             = "id"
	FieldCreatedTime    = "created_time"
	FieldLastEditedTime = "last_edited_time"
	FieldCreatedBy      = "created_by"
	FieldLastEditedBy   = "last_edited_by"
	FieldURL            = "url"
)

var reserved = map[string]property.Kind{
	FieldID:             property.KindString,
	FieldCreatedTime:    property.KindCreatedTime,
	FieldLastEditedTime: property.KindCreatedTime,
	FieldCreatedBy:      property.KindCreatedBy,
	FieldLastEditedBy:   property.KindCreatedBy,
	FieldURL:            property.KindURL,
}

// ErrInvalidSchema is returned for malformed schema declarations.
var ErrInvalidSchema = errors.New("invalid schema")

// Schema maps field names to property kinds. It is immutable once built.
type Schema struct {
	kinds map[string]property.Kind
}

// New builds a schema from the caller's fields. Reserved fields are always
// added with their fixed kinds, replacing any caller entry of the same name.
func New(fields map[string]property.Kind) (*Schema, error) {
	kinds := make(map[string]property.Kind, len(fields)+len(reserved))
	for name, kind := range fields {
		if name == "" {
			return nil, fmt.Errorf("%w: empty field name", ErrInvalidSchema)
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, name, property.ErrUnsupportedKind)
		}
		kinds[name] = kind
	}
	for name, kind := range reserved {
		kinds[name] = kind
	}
	return &Schema{kinds: kinds}, nil
}

// MustNew is like New but panics on error. Intended for package-level schemas.
func MustNew(fields map[string]property.Kind) *Schema {
	s, err := New(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Kind returns the declared kind of a field.
func (s *Schema) Kind(field string) (property.Kind, bool) {
	k, ok := s.kinds[field]
	return k, ok
}

// Has reports whether the field is declared, reserved fields included.
func (s *Schema) Has(field string) bool {
	_, ok := s.kinds[field]
	return ok
}

// IsReserved reports whether field is one of the six metadata fields.
func IsReserved(field string) bool {
	_, ok := reserved[field]
	return ok
}

// ReservedFields returns the metadata field names in a stable order.
func ReservedFields() []string {
	return []string{FieldID, FieldCreatedTime, FieldLastEditedTime, FieldCreatedBy, FieldLastEditedBy, FieldURL}
}

// Fields returns every field name, sorted.
func (s *Schema) Fields() []string {
	names := make([]string, 0, len(s.kinds))
	for name := range s.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UserFields returns the non-reserved field names, sorted.
func (s *Schema) UserFields() []string {
	names := make([]string, 0, len(s.kinds))
	for name := range s.kinds {
		if !IsReserved(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the field to kind mapping.
func (s *Schema) Map() map[string]property.Kind {
	out := make(map[string]property.Kind, len(s.kinds))
	for k, v := range s.kinds {
		out[k] = v
	}
	return out
}

// Fingerprint is a canonical serialization of the schema; equal schemas
// produce equal fingerprints.
func (s *Schema) Fingerprint() string {
	// encoding/json writes map keys sorted, and kinds are plain strings.
	raw, err := json.Marshal(s.kinds)
	if err != nil {
		panic(fmt.Sprintf("schema: marshal fingerprint: %v", err))
	}
	return string(raw)
}
