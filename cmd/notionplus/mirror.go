package main

import (
	"os"

	"github.com/dvloznov/notionplus/internal/config"
	"github.com/dvloznov/notionplus/internal/mirror"
	"github.com/dvloznov/notionplus/internal/model"
	"github.com/spf13/cobra"
)

var (
	sinkKind string
	bucket   string
	prefix   string
	dataset  string
	table    string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Copy every record to stdout, GCS or BigQuery",
	Long: `Mirror reads every record (with metadata) and writes it to a sink.

Example:
  notionplus mirror --schema tasks.yaml --sink stdout
  notionplus mirror --schema tasks.yaml --sink gcs --bucket my-bucket --prefix notion
  notionplus mirror --schema tasks.yaml --sink bigquery --project my-proj --dataset notion --table tasks`,
	Args: cobra.NoArgs,
	RunE: runMirror,
}

func init() {
	f := mirrorCmd.Flags()
	f.StringVar(&sinkKind, "sink", mirror.SinkStdout, "stdout, gcs or bigquery")
	f.StringVar(&bucket, "bucket", os.Getenv("GCS_BUCKET"), "GCS bucket (or set GCS_BUCKET)")
	f.StringVar(&prefix, "prefix", "", "GCS object prefix")
	f.StringVar(&dataset, "dataset", "", "BigQuery dataset")
	f.StringVar(&table, "table", "", "BigQuery table")

	// Shared with serve, which runs mirror jobs.
	pf := rootCmd.PersistentFlags()
	pf.String("project", "", "Google Cloud project for BigQuery (or NOTION_PROJECT_ID)")
	pf.String("credentials-file", "", "service account key file (default: Application Default Credentials)")
	_ = v.BindPFlag(config.KeyProjectID, pf.Lookup("project"))
	_ = v.BindPFlag(config.KeyCredentialsFile, pf.Lookup("credentials-file"))
}

// baseSinkSpec carries the Google Cloud settings shared by every sink.
func baseSinkSpec() mirror.SinkSpec {
	return mirror.SinkSpec{
		ProjectID:       cfg.ProjectID,
		CredentialsFile: cfg.CredentialsFile,
		Stdout:          os.Stdout,
	}
}

func runMirror(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	spec := baseSinkSpec()
	spec.Kind = sinkKind
	spec.Bucket, spec.Prefix = bucket, prefix
	spec.Dataset, spec.Table = dataset, table

	sink, err := mirror.Open(ctx, spec)
	if err != nil {
		return err
	}

	stats, err := mirror.Run(ctx, m, model.Query{Metadata: true}, sink)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("collection_id", m.CollectionID()).
		Int("pages", stats.Pages).
		Int("records", stats.Records).
		Str("location", mirror.Location(sink)).
		Msg("Mirror finished")

	if bq, ok := sink.(*mirror.BigQuerySink); ok {
		n, err := bq.CountPages(ctx, m.CollectionID())
		if err != nil {
			log.Warn().Err(err).Msg("Could not count mirrored pages")
		} else {
			log.Info().Int64("distinct_pages", n).Msg("BigQuery table")
		}
	}
	return nil
}
