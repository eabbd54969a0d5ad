// Package mirror copies the records of a collection into external storage.
package mirror

import (
	"context"
	"fmt"

	"github.com/dvloznov/notionplus/internal/logger"
	"github.com/dvloznov/notionplus/internal/model"
)

// Sink receives decoded records one query page at a time.
type Sink interface {
	// Write stores a batch of records from collectionID.
	Write(ctx context.Context, collectionID string, records []model.Record) error

	// Close flushes and releases the sink. Objects written to remote storage
	// become visible only after Close returns nil.
	Close() error
}

// Finder is the part of a model the mirror reads from.
type Finder interface {
	CollectionID() string
	Find(ctx context.Context, q model.Query) (*model.Result, error)
}

var _ Finder = (*model.Model)(nil)

// Stats summarizes one mirror run.
type Stats struct {
	Pages   int `json:"pages"`
	Records int `json:"records"`
}

// Run pages through every record matching q and writes each page to sink.
// The sink is not closed.
func Run(ctx context.Context, m Finder, q model.Query, sink Sink) (*Stats, error) {
	log := logger.FromContext(ctx)
	stats := &Stats{}

	for {
		res, err := m.Find(ctx, q)
		if err != nil {
			return stats, fmt.Errorf("Run: %w", err)
		}
		stats.Pages++

		if len(res.Results) > 0 {
			if err := sink.Write(ctx, m.CollectionID(), res.Results); err != nil {
				return stats, fmt.Errorf("Run: writing page %d: %w", stats.Pages, err)
			}
			stats.Records += len(res.Results)
		}

		log.Debug().
			Str("collection_id", m.CollectionID()).
			Int("page", stats.Pages).
			Int("count", res.Count).
			Msg("Mirrored page")

		if !res.HasMore || res.NextCursor == "" {
			break
		}
		q.StartCursor = res.NextCursor
	}

	log.Info().
		Str("collection_id", m.CollectionID()).
		Int("pages", stats.Pages).
		Int("records", stats.Records).
		Msg("Mirror complete")

	return stats, nil
}
