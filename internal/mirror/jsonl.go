package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dvloznov/notionplus/internal/model"
)

// WriterSink writes one JSON object per record to w.
type WriterSink struct {
	w   io.Writer
	enc *json.Encoder
}

// NewWriterSink returns a sink writing JSON lines to w. Close does not close w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, enc: json.NewEncoder(w)}
}

func (s *WriterSink) Write(ctx context.Context, collectionID string, records []model.Record) error {
	for _, rec := range records {
		if err := s.enc.Encode(rec); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}
	return nil
}

func (s *WriterSink) Close() error {
	return nil
}

var _ Sink = (*WriterSink)(nil)
