package model

import (
	"fmt"
	"time"

	"github.com/dvloznov/notionplus/internal/property"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jomei/notionapi"
)

// Fields is the input of Create and Update: schema field name to plain value.
type Fields map[string]any

// Record is one decoded page, keyed by schema field names.
type Record map[string]any

// String returns a text-like field, or "" if absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Strings returns a multi_select field.
func (r Record) Strings(field string) []string {
	s, _ := r[field].([]string)
	return s
}

// Bool returns a checkbox or boolean formula field.
func (r Record) Bool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

// Number returns a number field.
func (r Record) Number(field string) float64 {
	f, _ := r[field].(float64)
	return f
}

// Time returns a created_time field.
func (r Record) Time(field string) time.Time {
	t, _ := r[field].(time.Time)
	return t
}

// Date returns a date field, nil when unset.
func (r Record) Date(field string) *notionapi.DateObject {
	d, _ := r[field].(*notionapi.DateObject)
	return d
}

// Actor returns a created_by field.
func (r Record) Actor(field string) (property.Actor, bool) {
	a, ok := r[field].(property.Actor)
	return a, ok
}

// Scan copies the record into dst, a pointer to a struct whose fields carry
// `notion:"Field Name"` tags.
func (r Record) Scan(dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "notion",
		Result:  dst,
	})
	if err != nil {
		return fmt.Errorf("Scan: %w", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return fmt.Errorf("Scan: %w", err)
	}
	return nil
}

// ScanAll scans each record into a new T.
func ScanAll[T any](records []Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var v T
		if err := rec.Scan(&v); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
