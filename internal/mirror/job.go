package mirror

import (
	"context"
	"fmt"

	"github.com/dvloznov/notionplus/internal/jobs"
	"github.com/dvloznov/notionplus/internal/model"
)

// Opener builds a sink; Open in production.
type Opener func(ctx context.Context, spec SinkSpec) (Sink, error)

// JobHandler returns a jobs.Handler that mirrors m. Each job names its sink;
// base supplies the project and credentials.
func JobHandler(m Finder, base SinkSpec, open Opener) jobs.Handler {
	return func(ctx context.Context, job *jobs.MirrorJob) error {
		if job.CollectionID != m.CollectionID() {
			return fmt.Errorf("job for collection %s sent to mirror of %s", job.CollectionID, m.CollectionID())
		}

		spec := base
		spec.Kind = job.Sink
		spec.Bucket, spec.Prefix = job.Bucket, job.Prefix
		spec.Dataset, spec.Table = job.Dataset, job.Table

		sink, err := open(ctx, spec)
		if err != nil {
			return err
		}

		stats, err := Run(ctx, m, model.Query{Metadata: true}, sink)
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
		job.Pages, job.Records = stats.Pages, stats.Records
		if err != nil {
			return err
		}

		job.Location = Location(sink)
		return nil
	}
}
