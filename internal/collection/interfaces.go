package collection

import (
	"context"

	"github.com/jomei/notionapi"
)

// Service is the remote collection client the model layer talks to.
// This interface enables mocking and testing of Notion operations.
type Service interface {
	// QueryDatabase queries a Notion database. A zero PageSize is sent as-is,
	// which Notion treats as its maximum page.
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)

	// CreatePage creates a new page in a Notion database with the given properties.
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)

	// UpdatePage updates an existing Notion page with the given properties.
	UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error)

	// ArchivePage marks a page archived (Notion's soft delete).
	ArchivePage(ctx context.Context, pageID string) (*notionapi.Page, error)

	// GetPage retrieves a single page.
	GetPage(ctx context.Context, pageID string) (*notionapi.Page, error)
}
