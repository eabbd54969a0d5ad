package mirror

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dvloznov/notionplus/internal/model"
	"google.golang.org/api/option"
)

// ObjectOpener opens a writer for a new object in bucket.
type ObjectOpener func(ctx context.Context, bucket, object string) io.WriteCloser

// GCSSink writes a run to a single JSONL object,
// gs://bucket/prefix/<collection>-<timestamp>.jsonl.
type GCSSink struct {
	bucket string
	prefix string
	open   ObjectOpener
	now    func() time.Time
	close  func() error

	mu     sync.Mutex
	object string
	w      io.WriteCloser
	lines  *WriterSink
}

// NewGCSSink creates a storage client. An empty credentialsFile uses
// Application Default Credentials.
func NewGCSSink(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSSink, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSSink: create storage client: %w", err)
	}

	open := func(ctx context.Context, bucket, object string) io.WriteCloser {
		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = "application/x-ndjson"
		return w
	}

	s := NewGCSSinkWithOpener(bucket, prefix, open)
	s.close = client.Close
	return s, nil
}

// NewGCSSinkWithOpener builds a sink over an arbitrary object opener.
func NewGCSSinkWithOpener(bucket, prefix string, open ObjectOpener) *GCSSink {
	return &GCSSink{
		bucket: bucket,
		prefix: prefix,
		open:   open,
		now:    time.Now,
	}
}

// Object returns the object name, empty until the first Write.
func (s *GCSSink) Object() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.object
}

// URI returns the gs:// location of the object, empty until the first Write.
func (s *GCSSink) URI() string {
	obj := s.Object()
	if obj == "" {
		return ""
	}
	return "gs://" + s.bucket + "/" + obj
}

func (s *GCSSink) Write(ctx context.Context, collectionID string, records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		s.object = path.Join(s.prefix, fmt.Sprintf("%s-%s.jsonl", collectionID, s.now().UTC().Format("20060102T150405Z")))
		s.w = s.open(ctx, s.bucket, s.object)
		s.lines = NewWriterSink(s.w)
	}

	if err := s.lines.Write(ctx, collectionID, records); err != nil {
		return fmt.Errorf("write gs://%s/%s: %w", s.bucket, s.object, err)
	}
	return nil
}

// Close finalizes the upload.
func (s *GCSSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.w != nil {
		if cerr := s.w.Close(); cerr != nil {
			err = fmt.Errorf("finalize upload: %w", cerr)
		}
		s.w = nil
	}
	if s.close != nil {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
		s.close = nil
	}
	return err
}

var _ Sink = (*GCSSink)(nil)
