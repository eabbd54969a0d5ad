package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dvloznov/notionplus/internal/jobs"
)

// Store is an in-memory jobs.Store, safe for concurrent use.
// Data is lost on restart.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.MirrorJob
}

// NewStore creates a new in-memory job store.
func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*jobs.MirrorJob),
	}
}

// SaveJob stores a copy of job.
func (s *Store) SaveJob(ctx context.Context, job *jobs.MirrorJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy

	return nil
}

// GetJob returns a copy of the stored job.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.MirrorJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", jobs.ErrNotFound, jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs returns copies of the matching jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, filter jobs.Filter) ([]*jobs.MirrorJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*jobs.MirrorJob{}
	for _, job := range s.jobs {
		if filter.CollectionID != "" && job.CollectionID != filter.CollectionID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}

		jobCopy := *job
		result = append(result, &jobCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

var _ jobs.Store = (*Store)(nil)
