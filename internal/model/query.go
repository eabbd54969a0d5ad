package model

import (
	"fmt"

	"github.com/dvloznov/notionplus/internal/schema"
	"github.com/jomei/notionapi"
)

// Direction orders sort results.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Timestamp names the page timestamps Notion can sort on.
type Timestamp string

const (
	CreatedTime    Timestamp = "created_time"
	LastEditedTime Timestamp = "last_edited_time"
)

// Sort is one ordering directive: either by a schema field or by a page timestamp.
type Sort struct {
	Field     string
	Timestamp Timestamp
	Direction Direction
}

// SortBy orders by a schema field.
func SortBy(field string, dir Direction) Sort {
	return Sort{Field: field, Direction: dir}
}

// SortByTimestamp orders by a page timestamp.
func SortByTimestamp(ts Timestamp, dir Direction) Sort {
	return Sort{Timestamp: ts, Direction: dir}
}

// Query describes a Find call. Every field is optional.
type Query struct {
	// Filter is passed to Notion unchanged.
	Filter notionapi.Filter

	// PageSize of zero leaves the choice to Notion, which then returns its
	// maximum page. It does not mean "no results".
	PageSize int

	Sorts []Sort

	// Metadata fills the reserved fields from the page envelope.
	Metadata bool

	// StartCursor continues from a previous Result.NextCursor.
	StartCursor string
}

// Result is one page of decoded records.
type Result struct {
	Results    []Record `json:"results"`
	Count      int      `json:"count"`
	HasMore    bool     `json:"has_more"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

func (m *Model) queryRequest(q Query) (*notionapi.DatabaseQueryRequest, error) {
	req := &notionapi.DatabaseQueryRequest{
		Filter:      q.Filter,
		PageSize:    q.PageSize,
		StartCursor: notionapi.Cursor(q.StartCursor),
	}

	for _, s := range q.Sorts {
		dir := s.Direction
		if dir == "" {
			dir = Ascending
		}
		if dir != Ascending && dir != Descending {
			return nil, fmt.Errorf("invalid sort direction %q", dir)
		}

		if s.Field == schema.FieldCreatedTime || s.Field == schema.FieldLastEditedTime {
			s.Timestamp, s.Field = Timestamp(s.Field), ""
		}

		switch {
		case s.Field != "" && s.Timestamp != "":
			return nil, fmt.Errorf("sort sets both field %q and timestamp %q", s.Field, s.Timestamp)
		case s.Timestamp != "":
			if s.Timestamp != CreatedTime && s.Timestamp != LastEditedTime {
				return nil, fmt.Errorf("invalid sort timestamp %q", s.Timestamp)
			}
			req.Sorts = append(req.Sorts, notionapi.SortObject{
				Timestamp: notionapi.TimestampType(s.Timestamp),
				Direction: notionapi.SortOrder(dir),
			})
		default:
			if !m.schema.Has(s.Field) {
				return nil, fmt.Errorf("%w: sort on %q", ErrUnknownField, s.Field)
			}
			req.Sorts = append(req.Sorts, notionapi.SortObject{
				Property:  s.Field,
				Direction: notionapi.SortOrder(dir),
			})
		}
	}

	return req, nil
}
