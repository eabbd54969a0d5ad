// Package property translates between Notion property payloads and plain Go
// values. Every Kind has exactly one decoder and one encoder in the codec
// table; kinds Notion does not accept on writes encode to ErrReadOnlyKind.
package property

import (
	"fmt"

	"github.com/jomei/notionapi"
)

// Kind is the declared type of one schema field.
type Kind string

const (
	KindTitle       Kind = "title"
	KindRichText    Kind = "rich_text"
	KindCheckbox    Kind = "checkbox"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindNumber      Kind = "number"
	KindDate        Kind = "date"
	KindStatus      Kind = "status"
	KindFiles       Kind = "files"
	KindEmail       Kind = "email"
	KindURL         Kind = "url"
	KindPhoneNumber Kind = "phone_number"
	KindCreatedBy   Kind = "created_by"
	KindCreatedTime Kind = "created_time"
	// KindString and KindBoolean are the scalar results of formula properties.
	KindString  Kind = "string"
	KindBoolean Kind = "boolean"
)

var allKinds = []Kind{
	KindTitle,
	KindRichText,
	KindCheckbox,
	KindSelect,
	KindMultiSelect,
	KindNumber,
	KindDate,
	KindStatus,
	KindFiles,
	KindEmail,
	KindURL,
	KindPhoneNumber,
	KindCreatedBy,
	KindCreatedTime,
	KindString,
	KindBoolean,
}

// Kinds returns every supported kind.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, ok := codecs[k]
	return ok
}

// Writable reports whether values of this kind can be sent to Notion.
func (k Kind) Writable() bool {
	c, ok := codecs[k]
	return ok && c.encode != nil
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a textual kind, as found in schema files, to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
	return k, nil
}

// KindOf returns the kind of a property as it arrived from Notion. Wire types
// outside the supported set are reported as ErrUnsupportedKind.
func KindOf(p notionapi.Property) (Kind, error) {
	if p == nil {
		return "", fmt.Errorf("%w: nil property", ErrUnsupportedKind)
	}

	wire := string(p.GetType())
	if wire == "formula" {
		f, ok := as[notionapi.FormulaProperty](p)
		if !ok {
			return "", fmt.Errorf("%w: formula %T", ErrUnsupportedKind, p)
		}
		switch string(f.Formula.Type) {
		case string(KindString):
			return KindString, nil
		case string(KindBoolean):
			return KindBoolean, nil
		default:
			return "", fmt.Errorf("%w: formula of type %q", ErrUnsupportedKind, f.Formula.Type)
		}
	}

	k := Kind(wire)
	if k == KindString || k == KindBoolean || !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, wire)
	}
	return k, nil
}

// as accepts both the pointer form notionapi produces when parsing responses
// and the value form used when building requests.
func as[T any](p notionapi.Property) (*T, bool) {
	switch v := any(p).(type) {
	case *T:
		return v, v != nil
	case T:
		return &v, true
	}
	return nil, false
}
