package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/notionplus/internal/property"
	"github.com/dvloznov/notionplus/internal/schema"
	"github.com/jomei/notionapi"
)

// ErrNoFields is returned by ParseFields for an empty object and by Update
// when there is nothing to write.
var ErrNoFields = errors.New("no fields to write")

// ParseFields decodes a JSON object of field values for Create or Update.
// Date fields may be given as "2006-01-02", an RFC 3339 timestamp or a
// {"start", "end"} object; they are converted to values the date codec accepts.
// Other values are left as decoded by encoding/json.
func ParseFields(s *schema.Schema, data []byte) (Fields, error) {
	var fields Fields
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("ParseFields: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	for name, v := range fields {
		kind, ok := s.Kind(name)
		if !ok || kind != property.KindDate {
			continue
		}
		d, err := parseDate(v)
		if err != nil {
			return nil, &property.FieldError{Field: name, Kind: kind, Err: err}
		}
		fields[name] = d
	}
	return fields, nil
}

func parseDate(v any) (any, error) {
	switch d := v.(type) {
	case string:
		if day, err := civil.ParseDate(d); err == nil {
			return day, nil
		}
		t, err := time.Parse(time.RFC3339, d)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", property.ErrInvalidValue, d)
		}
		return t, nil
	case map[string]any:
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		var obj notionapi.DateObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: date object: %v", property.ErrInvalidValue, err)
		}
		return &obj, nil
	default:
		return v, nil
	}
}
