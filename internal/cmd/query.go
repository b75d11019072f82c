package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taurgis/mcpconform/internal/fieldpath"
	"github.com/taurgis/mcpconform/internal/value"
)

var (
	queryFile string
	queryPath string
	queryJQ   bool
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Extract a field path from a captured JSON response for ad-hoc inspection",
		RunE:  runQueryCmd,
	}
	cmd.Flags().StringVar(&queryFile, "file", "", "path to a captured JSON document (required)")
	cmd.Flags().StringVar(&queryPath, "path", "", "field path to extract, e.g. tools[0].name (required)")
	cmd.Flags().BoolVar(&queryJQ, "jq", false, "extract via the gojq-compiled filter instead of direct traversal")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("path")
	return cmd
}

func runQueryCmd(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(queryFile)
	if err != nil {
		return fmt.Errorf("reading %q: %w", queryFile, err)
	}
	doc, err := value.FromJSON(raw)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", queryFile, err)
	}

	var result value.Value
	var found bool
	if queryJQ {
		result, found = fieldpath.ExtractViaJQ(doc, queryPath)
	} else {
		result, found = fieldpath.Extract(doc, queryPath)
	}
	if !found {
		return fmt.Errorf("path %q did not resolve against %s", queryPath, queryFile)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value.ToInterface(result))
}
