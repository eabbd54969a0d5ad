package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dvloznov/notionplus/internal/model"
	"github.com/spf13/cobra"
)

var (
	pageSize int
	cursor   string
	sortSpec string
	metadata bool
	fetchAll bool
	data     string
	atomic   bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Query records",
	Long: `Find queries the database and prints the decoded records.

Example:
  notionplus find --schema tasks.yaml --sort=-Points,Name --page-size 10
  notionplus find --schema tasks.yaml --all --metadata`,
	Args: cobra.NoArgs,
	RunE: runFind,
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Retrieve one record by page id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a record",
	Long: `Create writes a new page from a JSON object of field values.

Example:
  notionplus create --schema tasks.yaml --data '{"Name":"Write docs","Tags":["a"]}'
  notionplus create --schema tasks.yaml --data @task.json`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a record",
	Long: `Update writes the given fields to an existing page. Fields that fail to
encode are reported; the rest are still written unless --atomic is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a record",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

func init() {
	findCmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page (0 lets Notion decide)")
	findCmd.Flags().StringVar(&cursor, "cursor", "", "start cursor from a previous page")
	findCmd.Flags().StringVar(&sortSpec, "sort", "", "comma separated fields, prefix with - for descending")
	findCmd.Flags().BoolVar(&fetchAll, "all", false, "follow cursors until every page is read")

	for _, c := range []*cobra.Command{findCmd, getCmd, createCmd, updateCmd} {
		c.Flags().BoolVar(&metadata, "metadata", false, "include id, timestamps, authors and url")
	}
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringVar(&data, "data", "", "JSON object of field values, or @file")
		_ = c.MarkFlagRequired("data")
	}
	updateCmd.Flags().BoolVar(&atomic, "atomic", false, "write nothing if any field fails")
}

func parseSorts(spec string) []model.Sort {
	if spec == "" {
		return nil
	}
	var sorts []model.Sort
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if strings.HasPrefix(field, "-") {
			sorts = append(sorts, model.SortBy(field[1:], model.Descending))
			continue
		}
		sorts = append(sorts, model.SortBy(field, model.Ascending))
	}
	return sorts
}

func callOptions() []model.CallOption {
	if metadata {
		return []model.CallOption{model.WithMetadata()}
	}
	return nil
}

func readData(m *model.Model) (model.Fields, error) {
	raw := []byte(data)
	if strings.HasPrefix(data, "@") {
		b, err := os.ReadFile(data[1:])
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		raw = b
	}
	return model.ParseFields(m.Schema(), raw)
}

func runFind(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}

	q := model.Query{
		PageSize:    pageSize,
		Sorts:       parseSorts(sortSpec),
		Metadata:    metadata,
		StartCursor: cursor,
	}

	ctx := commandContext(cmd)
	if fetchAll {
		records, err := m.FindAll(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(records)
	}

	res, err := m.Find(ctx, q)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func runGet(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	rec, err := m.Get(commandContext(cmd), args[0], callOptions()...)
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func runCreate(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	fields, err := readData(m)
	if err != nil {
		return err
	}
	rec, err := m.Create(commandContext(cmd), fields, callOptions()...)
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	fields, err := readData(m)
	if err != nil {
		return err
	}

	opts := callOptions()
	if atomic {
		opts = append(opts, model.AllOrNothing())
	}

	rec, err := m.Update(commandContext(cmd), args[0], fields, opts...)
	var partial *model.PartialError
	if errors.As(err, &partial) {
		if perr := printJSON(rec); perr != nil {
			return perr
		}
		return err
	}
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func runArchive(cmd *cobra.Command, args []string) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	if err := m.Archive(commandContext(cmd), args[0]); err != nil {
		return err
	}
	log.Info().Str("page_id", args[0]).Msg("Archived")
	return nil
}
