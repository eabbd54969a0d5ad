package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/notionplus/internal/api"
	"github.com/dvloznov/notionplus/internal/jobs/inmemory"
	"github.com/dvloznov/notionplus/internal/logger"
	"github.com/dvloznov/notionplus/internal/mirror"
	"github.com/spf13/cobra"
)

var (
	port          string
	mirrorWorkers int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the records of one database over HTTP",
	Long: `Serve exposes the records of the --schema database:

  GET    /api/records          query (page_size, cursor, metadata, sort)
  POST   /api/records          create
  GET    /api/records/{id}     get
  PATCH  /api/records/{id}     update, 207 on partial success
  DELETE /api/records/{id}     archive
  GET    /api/schema
  POST   /api/mirror           enqueue a gcs or bigquery mirror job
  GET    /api/jobs[/{id}]      mirror job status
  GET    /health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "8080", "HTTP server port")
	serveCmd.Flags().IntVar(&mirrorWorkers, "mirror-workers", 1, "concurrent mirror jobs")
}

func runServe(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}

	ctx := logger.WithContext(context.Background(), log)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(16, mirrorWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := jobQueue.Start(workerCtx, mirror.JobHandler(m, baseSinkSpec(), mirror.Open)); err != nil {
		return err
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: api.NewRouter(api.Deps{
			Records:      m,
			CollectionID: m.CollectionID(),
			Publisher:    jobQueue,
			Store:        jobStore,
		}, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", port).
			Str("collection_id", m.CollectionID()).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
	return nil
}
