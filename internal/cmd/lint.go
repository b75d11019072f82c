package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taurgis/mcpconform/internal/syntax"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <suite.json>",
		Short: "Run the offline syntax/anti-pattern analyzer over a suite's expected documents",
		Args:  cobra.ExactArgs(1),
		RunE:  lintSuiteCmd,
	}
}

func lintSuiteCmd(cmd *cobra.Command, args []string) error {
	suite, err := loadSuiteFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	total := 0
	for _, test := range suite.Tests {
		if len(test.Expect.Response) == 0 {
			continue
		}
		suggestions, err := syntax.AnalyzeDocument(test.Expect.Response)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", test.Name, err)
			continue
		}
		for _, s := range suggestions {
			total++
			fmt.Fprintf(out, "%s %s: %s\n", test.Name, s.Path, s.Message)
			if s.Correction != "" {
				fmt.Fprintf(out, "  -> %s\n", s.Correction)
			}
		}
	}

	if total == 0 {
		fmt.Fprintln(out, "no issues found")
		return nil
	}
	return fmt.Errorf("%d issue(s) found", total)
}
