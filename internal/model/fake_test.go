package model

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dvloznov/notionplus/internal/collection"
	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/require"
)

// fakeService records every call and replies with canned pages.
type fakeService struct {
	mu sync.Mutex

	queries  []*notionapi.DatabaseQueryRequest
	created  []notionapi.Properties
	updated  []notionapi.Properties
	archived []string
	got      []string

	// responses are returned in order by QueryDatabase; the last one repeats.
	responses []*notionapi.DatabaseQueryResponse
	page      *notionapi.Page
	err       error
}

var _ collection.Service = (*fakeService)(nil)

func (f *fakeService) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &notionapi.DatabaseQueryResponse{}, nil
	}
	i := len(f.queries) - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func (f *fakeService) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, properties)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeService) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, properties)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeService) ArchivePage(ctx context.Context, pageID string) (*notionapi.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, pageID)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeService) GetPage(ctx context.Context, pageID string) (*notionapi.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, pageID)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

const (
	testCollectionID = "7d1b6f2c-4a1e-4d8c-9f0a-2b3c4d5e6f70"
	testPageID       = "59833787-2cf9-4fdf-8782-e53db20768a5"
)

// taskPageJSON is a page of the schema returned by taskSchema.
const taskPageJSON = `{
	"object": "page",
	"id": "59833787-2cf9-4fdf-8782-e53db20768a5",
	"created_time": "2024-01-02T03:04:00.000Z",
	"last_edited_time": "2024-01-03T03:04:00.000Z",
	"created_by": {"object": "user", "id": "c2f20311-9e54-4d11-8c79-7398424ae41e"},
	"last_edited_by": {"object": "user", "id": "c2f20311-9e54-4d11-8c79-7398424ae41e"},
	"archived": false,
	"url": "https://www.notion.so/Write-docs-598337872cf94fdf8782e53db20768a5",
	"properties": {
		"Name": {"id": "title", "type": "title", "title": [{"type": "text", "text": {"content": "Write docs"}, "plain_text": "Write docs"}]},
		"Done": {"id": "a1", "type": "checkbox", "checkbox": true},
		"Tags": {"id": "a2", "type": "multi_select", "multi_select": [{"name": "b"}, {"name": "a"}, {"name": "b"}]},
		"Points": {"id": "a3", "type": "number", "number": 3},
		"Owner": {"id": "a4", "type": "created_by", "created_by": {"object": "user", "id": "c2f20311-9e54-4d11-8c79-7398424ae41e", "type": "person", "name": "Ada", "person": {"email": "ada@example.com"}}}
	}
}`

func pageFromJSON(t *testing.T, raw string) *notionapi.Page {
	t.Helper()
	var p notionapi.Page
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return &p
}
