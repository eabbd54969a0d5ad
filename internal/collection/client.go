package collection

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dvloznov/notionplus/internal/config"
	"github.com/jomei/notionapi"
)

// NotionClient is the concrete implementation of Service using the Notion SDK.
type NotionClient struct {
	client *notionapi.Client
}

// Option configures a NotionClient.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds every API call. Ignored when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if o.httpClient == nil && d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewNotionClient creates a new NotionClient with the provided API token.
func NewNotionClient(token string, opts ...Option) (*NotionClient, error) {
	if token == "" {
		return nil, config.ErrMissingToken
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var clientOpts []notionapi.ClientOption
	if o.httpClient != nil {
		clientOpts = append(clientOpts, notionapi.WithHTTPClient(o.httpClient))
	}

	return &NotionClient{
		client: notionapi.NewClient(notionapi.Token(token), clientOpts...),
	}, nil
}

// QueryDatabase queries a Notion database with the given request.
func (n *NotionClient) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := n.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, fmt.Errorf("QueryDatabase: %w", err)
	}

	return resp, nil
}

// CreatePage creates a new page in a Notion database with the given properties.
func (n *NotionClient) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: properties,
	}

	page, err := n.client.Page.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("CreatePage: %w", err)
	}

	return page, nil
}

// UpdatePage updates an existing Notion page with the given properties.
func (n *NotionClient) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	req := &notionapi.PageUpdateRequest{
		Properties: properties,
	}

	page, err := n.client.Page.Update(ctx, notionapi.PageID(pageID), req)
	if err != nil {
		return nil, fmt.Errorf("UpdatePage: %w", err)
	}

	return page, nil
}

// ArchivePage archives a Notion page by setting its archived property to true.
func (n *NotionClient) ArchivePage(ctx context.Context, pageID string) (*notionapi.Page, error) {
	req := &notionapi.PageUpdateRequest{
		Archived: true,
	}

	page, err := n.client.Page.Update(ctx, notionapi.PageID(pageID), req)
	if err != nil {
		return nil, fmt.Errorf("ArchivePage: %w", err)
	}

	return page, nil
}

// GetPage retrieves a single Notion page.
func (n *NotionClient) GetPage(ctx context.Context, pageID string) (*notionapi.Page, error) {
	page, err := n.client.Page.Get(ctx, notionapi.PageID(pageID))
	if err != nil {
		return nil, fmt.Errorf("GetPage: %w", err)
	}

	return page, nil
}

// Ensure NotionClient implements Service.
var _ Service = (*NotionClient)(nil)
