package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dvloznov/notionplus/internal/api/middleware"
	"github.com/dvloznov/notionplus/internal/jobs"
	"github.com/dvloznov/notionplus/internal/logger"
)

// JobsHandler handles mirror job endpoints.
type JobsHandler struct {
	collectionID string
	publisher    jobs.Publisher
	store        jobs.Store
}

// NewJobsHandler creates a new jobs handler for the collection being served.
func NewJobsHandler(collectionID string, publisher jobs.Publisher, store jobs.Store) *JobsHandler {
	return &JobsHandler{
		collectionID: collectionID,
		publisher:    publisher,
		store:        store,
	}
}

// EnqueueMirror handles POST /api/mirror
func (h *JobsHandler) EnqueueMirror(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sink    string `json:"sink"`
		Bucket  string `json:"bucket"`
		Prefix  string `json:"prefix"`
		Dataset string `json:"dataset"`
		Table   string `json:"table"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case req.Sink == "gcs" && req.Bucket == "":
		middleware.WriteError(w, http.StatusBadRequest, "bucket is required for the gcs sink")
		return
	case req.Sink == "bigquery" && (req.Dataset == "" || req.Table == ""):
		middleware.WriteError(w, http.StatusBadRequest, "dataset and table are required for the bigquery sink")
		return
	case req.Sink != "gcs" && req.Sink != "bigquery":
		middleware.WriteError(w, http.StatusBadRequest, "sink must be gcs or bigquery")
		return
	}

	job := &jobs.MirrorJob{
		CollectionID: h.collectionID,
		Sink:         req.Sink,
		Bucket:       req.Bucket,
		Prefix:       req.Prefix,
		Dataset:      req.Dataset,
		Table:        req.Table,
	}

	log := logger.FromContext(r.Context())
	if err := h.publisher.PublishMirror(r.Context(), job); err != nil {
		log.Error().Err(err).Msg("Failed to enqueue mirror job")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Failed to enqueue mirror job")
		return
	}

	log.Info().
		Str("job_id", job.JobID).
		Str("sink", job.Sink).
		Msg("Mirror job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, job)
}

// GetJob handles GET /api/jobs/:id
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobs.Filter{
		CollectionID: h.collectionID,
		Status:       jobs.JobStatus(r.URL.Query().Get("status")),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = n
	}

	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}
