package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/dvloznov/notionplus/internal/jobs"
	"github.com/dvloznov/notionplus/internal/logger"
	"github.com/google/uuid"
)

// Queue is a channel-backed job publisher and consumer for a single process.
// It is safe for concurrent use. Failed jobs are not retried.
type Queue struct {
	jobChan   chan *jobs.MirrorJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.Store
	workers   int
	closed    bool
}

// NewQueue creates a new in-memory job queue.
// bufferSize determines how many jobs can be queued before PublishMirror blocks.
func NewQueue(bufferSize, workers int, store jobs.Store) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		jobChan:   make(chan *jobs.MirrorJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		workers:   workers,
	}
}

// PublishMirror fills in the job id, status and creation time, saves the job
// and enqueues a copy of it.
func (q *Queue) PublishMirror(ctx context.Context, job *jobs.MirrorJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return jobs.ErrClosed
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	if q.store != nil {
		if err := q.store.SaveJob(ctx, job); err != nil {
			return err
		}
	}

	queued := *job
	select {
	case q.jobChan <- &queued:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return jobs.ErrClosed
	}
}

// Start launches the worker goroutines and returns immediately.
func (q *Queue) Start(ctx context.Context, handler jobs.Handler) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return jobs.ErrClosed
	}
	q.mu.RUnlock()

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}

	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}

			q.processJob(ctx, job, handler)
		}
	}
}

func (q *Queue) processJob(ctx context.Context, job *jobs.MirrorJob, handler jobs.Handler) {
	log := logger.FromContext(ctx).With().Str("job_id", job.JobID).Logger()

	job.Status = jobs.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	q.save(ctx, job)

	err := handler(ctx, job)

	completedAt := time.Now()
	job.CompletedAt = &completedAt
	if err != nil {
		job.Status = jobs.JobStatusFailed
		job.Error = err.Error()
		log.Error().Err(err).Msg("Job failed")
	} else {
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
		log.Info().Int("records", job.Records).Msg("Job completed")
	}
	q.save(ctx, job)
}

func (q *Queue) save(ctx context.Context, job *jobs.MirrorJob) {
	if q.store == nil {
		return
	}
	if err := q.store.SaveJob(ctx, job); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("job_id", job.JobID).Msg("Failed to save job state")
	}
}

// Stop closes the queue and waits for in-flight jobs to complete.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	// Wait for workers to finish with timeout
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the queue without a deadline.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

var _ jobs.Publisher = (*Queue)(nil)
var _ jobs.Consumer = (*Queue)(nil)
