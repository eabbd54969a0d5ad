package property

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"
)

type (
	decodeFunc func(p notionapi.Property) (any, error)
	encodeFunc func(value any) (notionapi.Property, error)
)

// codec pairs the two directions for one kind. A nil encode marks a kind that
// Notion computes and refuses on writes.
type codec struct {
	decode decodeFunc
	encode encodeFunc
}

var codecs = map[Kind]codec{
	KindTitle:       {decode: decodeTitle, encode: encodeTitle},
	KindRichText:    {decode: decodeRichText, encode: encodeRichText},
	KindCheckbox:    {decode: decodeCheckbox, encode: encodeCheckbox},
	KindSelect:      {decode: decodeSelect, encode: encodeSelect},
	KindMultiSelect: {decode: decodeMultiSelect, encode: encodeMultiSelect},
	KindNumber:      {decode: decodeNumber, encode: encodeNumber},
	KindDate:        {decode: decodeDate, encode: encodeDate},
	KindStatus:      {decode: decodeStatus, encode: encodeStatus},
	KindFiles:       {decode: decodeFiles, encode: encodeFiles},
	KindEmail:       {decode: decodeEmail, encode: encodeEmail},
	KindURL:         {decode: decodeURL, encode: encodeURL},
	KindPhoneNumber: {decode: decodePhoneNumber, encode: encodePhoneNumber},
	KindCreatedBy:   {decode: decodeCreatedBy},
	KindCreatedTime: {decode: decodeCreatedTime, encode: encodeCreatedTime},
	KindString:      {decode: decodeFormulaString},
	KindBoolean:     {decode: decodeFormulaBoolean},
}

// Decode converts one wire property into a plain value according to kind.
func Decode(kind Kind, p notionapi.Property) (any, error) {
	c, ok := codecs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: nil property for %s", ErrKindMismatch, kind)
	}
	return c.decode(p)
}

// DecodeAny decodes a property by the kind it carries on the wire.
func DecodeAny(p notionapi.Property) (Kind, any, error) {
	kind, err := KindOf(p)
	if err != nil {
		return "", nil, err
	}
	v, err := Decode(kind, p)
	return kind, v, err
}

// Encode converts a plain value into the payload fragment {field: property}.
func Encode(kind Kind, value any, field string) (notionapi.Properties, error) {
	c, ok := codecs[kind]
	if !ok {
		return nil, &FieldError{Field: field, Kind: kind, Err: ErrUnsupportedKind}
	}
	if c.encode == nil {
		return nil, &FieldError{Field: field, Kind: kind, Err: ErrReadOnlyKind}
	}
	p, err := c.encode(value)
	if err != nil {
		return nil, &FieldError{Field: field, Kind: kind, Err: err}
	}
	return notionapi.Properties{field: p}, nil
}

func mismatch(want Kind, p notionapi.Property) error {
	return fmt.Errorf("%w: want %s, got %s", ErrKindMismatch, want, p.GetType())
}

func invalid(kind Kind, value any) error {
	return fmt.Errorf("%w: %s cannot hold %T", ErrInvalidValue, kind, value)
}

// plainText returns the text of the first run. Responses fill PlainText;
// request payloads only carry Text.Content.
func plainText(runs []notionapi.RichText) string {
	if len(runs) == 0 {
		return ""
	}
	if runs[0].PlainText != "" {
		return runs[0].PlainText
	}
	if runs[0].Text != nil {
		return runs[0].Text.Content
	}
	return ""
}

func textRun(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

func decodeTitle(p notionapi.Property) (any, error) {
	t, ok := as[notionapi.TitleProperty](p)
	if !ok {
		return nil, mismatch(KindTitle, p)
	}
	return plainText(t.Title), nil
}

func decodeRichText(p notionapi.Property) (any, error) {
	t, ok := as[notionapi.RichTextProperty](p)
	if !ok {
		return nil, mismatch(KindRichText, p)
	}
	return plainText(t.RichText), nil
}

func decodeCheckbox(p notionapi.Property) (any, error) {
	c, ok := as[notionapi.CheckboxProperty](p)
	if !ok {
		return nil, mismatch(KindCheckbox, p)
	}
	return c.Checkbox, nil
}

func decodeSelect(p notionapi.Property) (any, error) {
	s, ok := as[notionapi.SelectProperty](p)
	if !ok {
		return nil, mismatch(KindSelect, p)
	}
	return s.Select.Name, nil
}

func decodeStatus(p notionapi.Property) (any, error) {
	s, ok := as[notionapi.StatusProperty](p)
	if !ok {
		return nil, mismatch(KindStatus, p)
	}
	return s.Status.Name, nil
}

func decodeMultiSelect(p notionapi.Property) (any, error) {
	m, ok := as[notionapi.MultiSelectProperty](p)
	if !ok {
		return nil, mismatch(KindMultiSelect, p)
	}
	names := make([]string, 0, len(m.MultiSelect))
	for _, opt := range m.MultiSelect {
		names = append(names, opt.Name)
	}
	return names, nil
}

func decodeNumber(p notionapi.Property) (any, error) {
	n, ok := as[notionapi.NumberProperty](p)
	if !ok {
		return nil, mismatch(KindNumber, p)
	}
	return n.Number, nil
}

func decodeDate(p notionapi.Property) (any, error) {
	d, ok := as[notionapi.DateProperty](p)
	if !ok {
		return nil, mismatch(KindDate, p)
	}
	return d.Date, nil
}

func decodeFiles(p notionapi.Property) (any, error) {
	f, ok := as[notionapi.FilesProperty](p)
	if !ok {
		return nil, mismatch(KindFiles, p)
	}
	if len(f.Files) == 0 {
		return "", nil
	}
	first := f.Files[0]
	if first.External != nil {
		return first.External.URL, nil
	}
	if first.File != nil {
		return first.File.URL, nil
	}
	return "", nil
}

func decodeEmail(p notionapi.Property) (any, error) {
	e, ok := as[notionapi.EmailProperty](p)
	if !ok {
		return nil, mismatch(KindEmail, p)
	}
	return e.Email, nil
}

func decodeURL(p notionapi.Property) (any, error) {
	u, ok := as[notionapi.URLProperty](p)
	if !ok {
		return nil, mismatch(KindURL, p)
	}
	return u.URL, nil
}

func decodePhoneNumber(p notionapi.Property) (any, error) {
	n, ok := as[notionapi.PhoneNumberProperty](p)
	if !ok {
		return nil, mismatch(KindPhoneNumber, p)
	}
	return n.PhoneNumber, nil
}

func decodeCreatedBy(p notionapi.Property) (any, error) {
	c, ok := as[notionapi.CreatedByProperty](p)
	if !ok {
		return nil, mismatch(KindCreatedBy, p)
	}
	return ActorFromUser(c.CreatedBy), nil
}

func decodeCreatedTime(p notionapi.Property) (any, error) {
	c, ok := as[notionapi.CreatedTimeProperty](p)
	if !ok {
		return nil, mismatch(KindCreatedTime, p)
	}
	return c.CreatedTime, nil
}

func decodeFormulaString(p notionapi.Property) (any, error) {
	f, ok := as[notionapi.FormulaProperty](p)
	if !ok {
		return nil, mismatch(KindString, p)
	}
	return f.Formula.String, nil
}

func decodeFormulaBoolean(p notionapi.Property) (any, error) {
	f, ok := as[notionapi.FormulaProperty](p)
	if !ok {
		return nil, mismatch(KindBoolean, p)
	}
	return f.Formula.Boolean, nil
}

func encodeTitle(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindTitle, value)
	}
	return notionapi.TitleProperty{Title: textRun(s)}, nil
}

func encodeRichText(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindRichText, value)
	}
	return notionapi.RichTextProperty{RichText: textRun(s)}, nil
}

func encodeCheckbox(value any) (notionapi.Property, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, invalid(KindCheckbox, value)
	}
	return notionapi.CheckboxProperty{Checkbox: b}, nil
}

func encodeSelect(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindSelect, value)
	}
	return notionapi.SelectProperty{Select: notionapi.Option{Name: s}}, nil
}

func encodeStatus(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindStatus, value)
	}
	return notionapi.StatusProperty{Status: notionapi.Status{Name: s}}, nil
}

func encodeMultiSelect(value any) (notionapi.Property, error) {
	var names []string
	switch v := value.(type) {
	case []string:
		names = v
	case []any:
		names = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: multi_select element %T", ErrInvalidValue, item)
			}
			names = append(names, s)
		}
	default:
		return nil, invalid(KindMultiSelect, value)
	}

	opts := make([]notionapi.Option, 0, len(names))
	for _, name := range names {
		opts = append(opts, notionapi.Option{Name: name})
	}
	return notionapi.MultiSelectProperty{MultiSelect: opts}, nil
}

func encodeNumber(value any) (notionapi.Property, error) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	default:
		return nil, invalid(KindNumber, value)
	}
	return notionapi.NumberProperty{Number: f}, nil
}

func encodeDate(value any) (notionapi.Property, error) {
	var d *notionapi.DateObject
	switch v := value.(type) {
	case *notionapi.DateObject:
		d = v
	case notionapi.DateObject:
		d = &v
	case time.Time:
		start := notionapi.Date(v)
		d = &notionapi.DateObject{Start: &start}
	case civil.Date:
		start := notionapi.Date(v.In(time.UTC))
		d = &notionapi.DateObject{Start: &start}
	default:
		return nil, invalid(KindDate, value)
	}
	return notionapi.DateProperty{Date: d}, nil
}

func encodeFiles(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindFiles, value)
	}
	return notionapi.FilesProperty{
		Files: []notionapi.File{
			{
				Name:     s,
				Type:     "external",
				External: &notionapi.FileObject{URL: s},
			},
		},
	}, nil
}

func encodeEmail(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindEmail, value)
	}
	return notionapi.EmailProperty{Email: s}, nil
}

func encodeURL(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindURL, value)
	}
	return notionapi.URLProperty{URL: s}, nil
}

func encodePhoneNumber(value any) (notionapi.Property, error) {
	s, ok := value.(string)
	if !ok {
		return nil, invalid(KindPhoneNumber, value)
	}
	return notionapi.PhoneNumberProperty{PhoneNumber: s}, nil
}

func encodeCreatedTime(value any) (notionapi.Property, error) {
	t, ok := value.(time.Time)
	if !ok {
		return nil, invalid(KindCreatedTime, value)
	}
	return notionapi.CreatedTimeProperty{CreatedTime: t}, nil
}
