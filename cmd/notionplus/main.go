// Package main provides the notionplus CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dvloznov/notionplus/internal/collection"
	"github.com/dvloznov/notionplus/internal/config"
	"github.com/dvloznov/notionplus/internal/logger"
	"github.com/dvloznov/notionplus/internal/model"
	"github.com/dvloznov/notionplus/internal/schema"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// schemaFile is set by the --schema flag.
	schemaFile string

	// databaseID overrides the database_id of the schema file.
	databaseID string

	v   = config.NewViper()
	cfg *config.Config
	log zerolog.Logger
	svc collection.Service
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "notionplus",
	Short: "Typed records over Notion databases",
	Long: `notionplus reads and writes the pages of a Notion database as plain
records described by a schema file:

  database_id: f9a54059cf554ba0a6a6f0238fd05738
  fields:
    Name: title
    Tags: multi_select

The integration token is read from --token or NOTION_TOKEN.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (YAML)")
	flags.StringVar(&schemaFile, "schema", "", "schema file (YAML)")
	flags.StringVar(&databaseID, "database", "", "database id, overrides the schema file")
	flags.String("token", "", "Notion integration token (or NOTION_TOKEN)")
	flags.String("log-level", "info", "log level")
	flags.Duration("timeout", 0, "timeout for each Notion API call")

	_ = v.BindPFlag(config.KeyToken, flags.Lookup("token"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))

	rootCmd.AddCommand(findCmd, getCmd, createCmd, updateCmd, archiveCmd, inspectCmd, mirrorCmd, serveCmd)
}

// setup loads configuration, the logger and the Notion client.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(v, configFile)
	if err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			return fmt.Errorf("%w: pass --token or set NOTION_TOKEN", err)
		}
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log = logger.New().Level(level)

	var opts []collection.Option
	if cfg.Timeout > 0 {
		opts = append(opts, collection.WithTimeout(cfg.Timeout))
	}
	svc, err = collection.NewNotionClient(cfg.Token, opts...)
	if err != nil {
		return err
	}
	return nil
}

// commandContext carries the CLI logger into library calls.
func commandContext(cmd *cobra.Command) context.Context {
	return logger.WithContext(cmd.Context(), log)
}

// loadModel binds the --schema file to its database.
func loadModel() (*model.Model, error) {
	if schemaFile == "" {
		return nil, errors.New("--schema is required")
	}
	id, s, err := schema.LoadFile(schemaFile)
	if err != nil {
		return nil, err
	}
	if databaseID != "" {
		id = databaseID
	}
	if id == "" {
		return nil, errors.New("no database id: set database_id in the schema file or pass --database")
	}
	return model.NewRegistry(svc).Model(id, s)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
