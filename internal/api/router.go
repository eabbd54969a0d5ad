// Package api serves the records of one collection over HTTP.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/dvloznov/notionplus/internal/api/handlers"
	"github.com/dvloznov/notionplus/internal/api/middleware"
	"github.com/dvloznov/notionplus/internal/jobs"
	"github.com/rs/zerolog"
)

// Deps are the services behind the router. Jobs endpoints are registered only
// when Publisher and Store are both set.
type Deps struct {
	Records      handlers.Records
	CollectionID string
	Publisher    jobs.Publisher
	Store        jobs.Store
}

// NewRouter wires the endpoints and the middleware chain.
func NewRouter(deps Deps, log zerolog.Logger) http.Handler {
	recordsHandler := handlers.NewRecordsHandler(deps.Records)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/records", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			recordsHandler.ListRecords(w, r)
		case http.MethodPost:
			recordsHandler.CreateRecord(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/records/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/records/")
		if id == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Record ID is required")
			return
		}

		switch r.Method {
		case http.MethodGet:
			recordsHandler.GetRecord(w, r, id)
		case http.MethodPatch:
			recordsHandler.UpdateRecord(w, r, id)
		case http.MethodDelete:
			recordsHandler.ArchiveRecord(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/schema", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			recordsHandler.Schema(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	if deps.Publisher != nil && deps.Store != nil {
		jobsHandler := handlers.NewJobsHandler(deps.CollectionID, deps.Publisher, deps.Store)

		mux.HandleFunc("/api/mirror", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				jobsHandler.EnqueueMirror(w, r)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})

		mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				jobsHandler.ListJobs(w, r)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
		})

		mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		})
	}

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(mux),
			),
		),
	)
}
