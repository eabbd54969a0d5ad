package schema

import (
	"testing"

	"github.com/dvloznov/notionplus/internal/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddsReservedFields(t *testing.T) {
	s, err := New(map[string]property.Kind{
		"First Name": property.KindTitle,
		"Email":      property.KindEmail,
	})
	require.NoError(t, err)

	want := map[string]property.Kind{
		FieldID:             property.KindString,
		FieldCreatedTime:    property.KindCreatedTime,
		FieldLastEditedTime: property.KindCreatedTime,
		FieldCreatedBy:      property.KindCreatedBy,
		FieldLastEditedBy:   property.KindCreatedBy,
		FieldURL:            property.KindURL,
	}
	for name, kind := range want {
		got, ok := s.Kind(name)
		require.Truef(t, ok, "reserved field %s missing", name)
		assert.Equal(t, kind, got)
	}
	assert.Equal(t, []string{"Email", "First Name"}, s.UserFields())
	assert.Len(t, s.Fields(), 8)
}

func TestNewOverridesConflictingReservedKinds(t *testing.T) {
	s, err := New(map[string]property.Kind{
		"id":         property.KindNumber,
		"url":        property.KindRichText,
		"created_by": property.KindTitle,
	})
	require.NoError(t, err)

	k, _ := s.Kind("id")
	assert.Equal(t, property.KindString, k)
	k, _ = s.Kind("url")
	assert.Equal(t, property.KindURL, k)
	k, _ = s.Kind("created_by")
	assert.Equal(t, property.KindCreatedBy, k)
	assert.Empty(t, s.UserFields())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(map[string]property.Kind{"": property.KindTitle})
	require.ErrorIs(t, err, ErrInvalidSchema)

	_, err = New(map[string]property.Kind{"Rel": property.Kind("relation")})
	require.ErrorIs(t, err, ErrInvalidSchema)
	require.ErrorIs(t, err, property.ErrUnsupportedKind)
}

func TestSchemaIsImmutable(t *testing.T) {
	input := map[string]property.Kind{"Name": property.KindTitle}
	s := MustNew(input)

	input["Name"] = property.KindNumber
	input["Extra"] = property.KindEmail
	m := s.Map()
	m["Name"] = property.KindNumber

	k, _ := s.Kind("Name")
	assert.Equal(t, property.KindTitle, k)
	assert.False(t, s.Has("Extra"))
}

func TestFingerprint(t *testing.T) {
	a := MustNew(map[string]property.Kind{"A": property.KindTitle, "B": property.KindNumber})
	b := MustNew(map[string]property.Kind{"B": property.KindNumber, "A": property.KindTitle})
	c := MustNew(map[string]property.Kind{"A": property.KindTitle, "B": property.KindRichText})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestParse(t *testing.T) {
	id, s, err := Parse([]byte(`
database_id: f9a54059cf554ba0a6a6f0238fd05738
fields:
  First Name: title
  Role: select
  Picture: files
`))
	require.NoError(t, err)
	assert.Equal(t, "f9a54059cf554ba0a6a6f0238fd05738", id)

	k, ok := s.Kind("Picture")
	require.True(t, ok)
	assert.Equal(t, property.KindFiles, k)
	assert.True(t, IsReserved("last_edited_by"))
	assert.False(t, IsReserved("Role"))
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"no fields":    "database_id: abc\n",
		"bad kind":     "fields:\n  Rel: relation\n",
		"invalid yaml": "fields: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}
