package schema

import (
	"fmt"
	"os"

	"github.com/dvloznov/notionplus/internal/property"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of a collection binding:
//
//	database_id: f9a54059cf554ba0a6a6f0238fd05738
//	fields:
//	  First Name: title
//	  Email: email
type File struct {
	DatabaseID string            `yaml:"database_id"`
	Fields     map[string]string `yaml:"fields"`
}

// LoadFile reads a schema file and returns the collection id it names along
// with the parsed schema.
func LoadFile(path string) (string, *Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("LoadFile: reading %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML schema document.
func Parse(data []byte) (string, *Schema, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if len(f.Fields) == 0 {
		return "", nil, fmt.Errorf("%w: no fields declared", ErrInvalidSchema)
	}

	fields := make(map[string]property.Kind, len(f.Fields))
	for name, raw := range f.Fields {
		kind, err := property.ParseKind(raw)
		if err != nil {
			return "", nil, fmt.Errorf("%w: field %q: %w", ErrInvalidSchema, name, err)
		}
		fields[name] = kind
	}

	s, err := New(fields)
	if err != nil {
		return "", nil, err
	}
	return f.DatabaseID, s, nil
}
