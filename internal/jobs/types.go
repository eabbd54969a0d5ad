// Package jobs describes background mirror runs and the queue that executes them.
package jobs

import (
	"context"
	"errors"
	"time"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
)

// ErrNotFound is returned for unknown job ids.
var ErrNotFound = errors.New("job not found")

// ErrClosed is returned when publishing to a stopped queue.
var ErrClosed = errors.New("queue is closed")

// MirrorJob copies every record of a collection to a sink.
type MirrorJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// CollectionID is the database being mirrored.
	CollectionID string `json:"collection_id"`

	// Sink is "gcs" or "bigquery".
	Sink string `json:"sink"`

	// Bucket and Prefix locate the GCS object.
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`

	// Dataset and Table locate the BigQuery table.
	Dataset string `json:"dataset,omitempty"`
	Table   string `json:"table,omitempty"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// Pages and Records count what was written.
	Pages   int `json:"pages"`
	Records int `json:"records"`

	// Location is where the output landed, e.g. a gs:// URI.
	Location string `json:"location,omitempty"`
}

// Publisher enqueues jobs.
type Publisher interface {
	// PublishMirror enqueues a mirror job. The job is assigned an id and a
	// pending status if it has none.
	PublishMirror(ctx context.Context, job *MirrorJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer executes queued jobs.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler Handler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// Handler runs one job. It may record progress (Pages, Records, Location) on
// the job it is given.
type Handler func(ctx context.Context, job *MirrorJob) error

// Store keeps job state for status queries.
type Store interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *MirrorJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*MirrorJob, error)

	// ListJobs retrieves jobs with optional filtering, newest first.
	ListJobs(ctx context.Context, filter Filter) ([]*MirrorJob, error)
}

// Filter defines filtering criteria for listing jobs.
type Filter struct {
	// CollectionID filters jobs by collection.
	CollectionID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int
}
