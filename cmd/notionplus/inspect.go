package main

import (
	"github.com/dvloznov/notionplus/internal/model"
	"github.com/dvloznov/notionplus/internal/property"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <page-id>",
	Short: "Decode every property of a page by its wire kind",
	Long: `Inspect prints each property of a page with the kind Notion reports for
it. It needs no schema and is useful for writing one.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

type inspectedProperty struct {
	Kind  property.Kind `json:"kind,omitempty"`
	Value any           `json:"value,omitempty"`
	Error string        `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	id, err := model.NormalizeID(args[0])
	if err != nil {
		return err
	}

	page, err := svc.GetPage(commandContext(cmd), id)
	if err != nil {
		return err
	}

	out := make(map[string]inspectedProperty, len(page.Properties))
	for name, p := range page.Properties {
		kind, value, err := property.DecodeAny(p)
		if err != nil {
			out[name] = inspectedProperty{Kind: kind, Error: err.Error()}
			continue
		}
		out[name] = inspectedProperty{Kind: kind, Value: value}
	}
	return printJSON(out)
}
