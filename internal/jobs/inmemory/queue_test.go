package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/notionplus/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, s *Store, id string, want jobs.JobStatus) *jobs.MirrorJob {
	t.Helper()
	var job *jobs.MirrorJob
	require.Eventually(t, func() bool {
		var err error
		job, err = s.GetJob(context.Background(), id)
		return err == nil && job.Status == want
	}, 2*time.Second, 10*time.Millisecond)
	return job
}

func TestQueueRunsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := NewQueue(4, 2, store)
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job *jobs.MirrorJob) error {
		if job.Sink == "bad" {
			return errors.New("sink unavailable")
		}
		job.Pages, job.Records, job.Location = 1, 3, "gs://b/o.jsonl"
		return nil
	}))
	defer q.Close()

	ok := &jobs.MirrorJob{CollectionID: "c1", Sink: "gcs"}
	require.NoError(t, q.PublishMirror(ctx, ok))
	assert.NotEmpty(t, ok.JobID)
	assert.Equal(t, jobs.JobStatusPending, ok.Status)

	bad := &jobs.MirrorJob{CollectionID: "c1", Sink: "bad"}
	require.NoError(t, q.PublishMirror(ctx, bad))

	done := waitForStatus(t, store, ok.JobID, jobs.JobStatusCompleted)
	assert.Equal(t, 3, done.Records)
	assert.Equal(t, "gs://b/o.jsonl", done.Location)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)

	failed := waitForStatus(t, store, bad.JobID, jobs.JobStatusFailed)
	assert.Equal(t, "sink unavailable", failed.Error)
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(1, 1, nil)
	require.NoError(t, q.Close())
	require.NoError(t, q.Stop(context.Background()))

	err := q.PublishMirror(context.Background(), &jobs.MirrorJob{})
	assert.ErrorIs(t, err, jobs.ErrClosed)
	assert.ErrorIs(t, q.Start(context.Background(), nil), jobs.ErrClosed)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	assert.Error(t, s.SaveJob(ctx, &jobs.MirrorJob{}))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveJob(ctx, &jobs.MirrorJob{JobID: "a", CollectionID: "c1", Status: jobs.JobStatusCompleted, CreatedAt: base}))
	require.NoError(t, s.SaveJob(ctx, &jobs.MirrorJob{JobID: "b", CollectionID: "c1", Status: jobs.JobStatusFailed, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.SaveJob(ctx, &jobs.MirrorJob{JobID: "c", CollectionID: "c2", Status: jobs.JobStatusCompleted, CreatedAt: base.Add(2 * time.Hour)}))

	all, err := s.ListJobs(ctx, jobs.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].JobID)

	c1, err := s.ListJobs(ctx, jobs.Filter{CollectionID: "c1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, c1, 1)
	assert.Equal(t, "b", c1[0].JobID)

	done, err := s.ListJobs(ctx, jobs.Filter{Status: jobs.JobStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, done, 2)

	got, err := s.GetJob(ctx, "a")
	require.NoError(t, err)
	got.Status = jobs.JobStatusRunning
	again, _ := s.GetJob(ctx, "a")
	assert.Equal(t, jobs.JobStatusCompleted, again.Status)

	_, err = s.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, jobs.ErrNotFound)
}
