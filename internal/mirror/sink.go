package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Sink kinds accepted by Open.
const (
	SinkStdout   = "stdout"
	SinkGCS      = "gcs"
	SinkBigQuery = "bigquery"
)

// ErrInvalidSink is returned for an unknown or incomplete sink description.
var ErrInvalidSink = errors.New("invalid sink")

// SinkSpec describes where a mirror run writes.
type SinkSpec struct {
	Kind string

	// GCS
	Bucket string
	Prefix string

	// BigQuery
	ProjectID string
	Dataset   string
	Table     string

	// CredentialsFile is a service account key; empty uses Application
	// Default Credentials.
	CredentialsFile string

	// Stdout is the destination of the stdout sink.
	Stdout io.Writer
}

// Validate reports missing settings for the chosen kind.
func (s SinkSpec) Validate() error {
	switch s.Kind {
	case SinkStdout:
		if s.Stdout == nil {
			return fmt.Errorf("%w: no writer for stdout sink", ErrInvalidSink)
		}
	case SinkGCS:
		if s.Bucket == "" {
			return fmt.Errorf("%w: gcs sink needs a bucket", ErrInvalidSink)
		}
	case SinkBigQuery:
		if s.ProjectID == "" || s.Dataset == "" || s.Table == "" {
			return fmt.Errorf("%w: bigquery sink needs project, dataset and table", ErrInvalidSink)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSink, s.Kind)
	}
	return nil
}

// Open builds the sink described by spec. BigQuery tables are created if
// missing.
func Open(ctx context.Context, spec SinkSpec) (Sink, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	switch spec.Kind {
	case SinkGCS:
		return NewGCSSink(ctx, spec.Bucket, spec.Prefix, spec.CredentialsFile)
	case SinkBigQuery:
		bq, err := NewBigQuerySink(ctx, spec.ProjectID, spec.Dataset, spec.Table, spec.CredentialsFile)
		if err != nil {
			return nil, err
		}
		if err := bq.EnsureTable(ctx); err != nil {
			_ = bq.Close()
			return nil, err
		}
		return bq, nil
	default:
		return NewWriterSink(spec.Stdout), nil
	}
}

// Location describes where a sink wrote, or "" if it has no single location.
func Location(s Sink) string {
	switch v := s.(type) {
	case *GCSSink:
		return v.URI()
	case *BigQuerySink:
		if v.table != nil {
			return v.table.FullyQualifiedName()
		}
	}
	return ""
}
