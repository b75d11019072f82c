// Package cmd wires the domain packages (harness, validator, fieldpath,
// syntax) into a deliberately thin cobra command tree: run a suite
// against a spawned server, lint a suite offline, or query a captured
// JSON document ad hoc. Full argument parsing, glob expansion over
// suite directories, and exit-code mapping belong to a fuller
// declarative-loader/CLI-frontend this package does not attempt;
// it exists so the domain packages have one real
// caller exercising them end to end.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taurgis/mcpconform/internal/logger"
)

var (
	debugFlag bool
	version   = "dev" // overridden by SetVersion
	debugLog  = logger.New("cmd:root")
)

var rootCmd = &cobra.Command{
	Use:          "mcpconform",
	Short:        "Pattern-directed MCP conformance test harness",
	Version:      version,
	Long:         `mcpconform runs declarative test suites against Model Context Protocol servers over stdio, validating JSON-RPC responses with a pattern-matching assertion language.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugFlag {
			os.Setenv("DEBUG", "*")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable verbose harness/validator logging (equivalent to DEBUG=*)")
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newCompletionCmd())
}

// Execute runs the root command, exiting non-zero on error per cobra's
// conventional contract.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version string reported by `mcpconform --version`.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
