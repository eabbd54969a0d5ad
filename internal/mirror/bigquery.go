package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/notionplus/internal/model"
	"github.com/dvloznov/notionplus/internal/schema"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// RecordRow is one mirrored record.
type RecordRow struct {
	CollectionID string    `bigquery:"collection_id"`
	PageID       string    `bigquery:"page_id"`
	RecordJSON   string    `bigquery:"record_json"`
	MirroredAt   time.Time `bigquery:"mirrored_at"`
}

// Putter streams rows into a table. *bigquery.Inserter satisfies it.
type Putter interface {
	Put(ctx context.Context, src interface{}) error
}

// BigQuerySink streams records into a BigQuery table.
type BigQuerySink struct {
	client   *bigquery.Client
	table    *bigquery.Table
	inserter Putter
	now      func() time.Time
}

// NewBigQuerySink connects to the table projectID.datasetID.tableID.
// An empty credentialsFile uses Application Default Credentials.
func NewBigQuerySink(ctx context.Context, projectID, datasetID, tableID, credentialsFile string) (*BigQuerySink, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewBigQuerySink: bigquery client: %w", err)
	}

	table := client.DatasetInProject(projectID, datasetID).Table(tableID)
	return &BigQuerySink{
		client:   client,
		table:    table,
		inserter: table.Inserter(),
		now:      time.Now,
	}, nil
}

// NewBigQuerySinkWithPutter builds a sink over an arbitrary row putter.
func NewBigQuerySinkWithPutter(p Putter) *BigQuerySink {
	return &BigQuerySink{inserter: p, now: time.Now}
}

// EnsureTable creates the destination table if it does not exist.
func (s *BigQuerySink) EnsureTable(ctx context.Context) error {
	if s.table == nil {
		return nil
	}
	if _, err := s.table.Metadata(ctx); err == nil {
		return nil
	}

	sch, err := bigquery.InferSchema(RecordRow{})
	if err != nil {
		return fmt.Errorf("EnsureTable: infer schema: %w", err)
	}
	if err := s.table.Create(ctx, &bigquery.TableMetadata{Schema: sch}); err != nil {
		return fmt.Errorf("EnsureTable: create table: %w", err)
	}
	return nil
}

// Rows converts records to table rows. Records without an id were queried
// without metadata and are rejected.
func Rows(collectionID string, records []model.Record, at time.Time) ([]*RecordRow, error) {
	rows := make([]*RecordRow, 0, len(records))
	for i, rec := range records {
		pageID := rec.String(schema.FieldID)
		if pageID == "" {
			return nil, fmt.Errorf("record %d has no %s; query with metadata", i, schema.FieldID)
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal record %s: %w", pageID, err)
		}
		rows = append(rows, &RecordRow{
			CollectionID: collectionID,
			PageID:       pageID,
			RecordJSON:   string(raw),
			MirroredAt:   at,
		})
	}
	return rows, nil
}

func (s *BigQuerySink) Write(ctx context.Context, collectionID string, records []model.Record) error {
	rows, err := Rows(collectionID, records, s.now().UTC())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("inserting rows: %w", err)
	}
	return nil
}

// CountPages returns the number of distinct pages mirrored for collectionID.
func (s *BigQuerySink) CountPages(ctx context.Context, collectionID string) (int64, error) {
	if s.client == nil || s.table == nil {
		return 0, fmt.Errorf("CountPages: sink has no bigquery client")
	}

	q := s.client.Query(`
		SELECT COUNT(DISTINCT page_id) AS pages
		FROM ` + "`" + s.table.ProjectID + "." + s.table.DatasetID + "." + s.table.TableID + "`" + `
		WHERE collection_id = @collection_id
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "collection_id", Value: collectionID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("CountPages: running query: %w", err)
	}

	var row struct {
		Pages int64 `bigquery:"pages"`
	}
	for {
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("CountPages: reading row: %w", err)
		}
	}
	return row.Pages, nil
}

func (s *BigQuerySink) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ Sink = (*BigQuerySink)(nil)
