// ABOUTME: Root command wiring global flags and all subcommands
// ABOUTME: Entry point used by main and by command tests
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stacks",
		Short: "Personal e-book catalog with hybrid search",
		Long: `Stacks keeps a local catalog of your e-book library in SQLite.

Import a library export, enrich it with OpenLibrary metadata, and search
it by keyword (BM25) or by meaning (embeddings). Everything lives in one
local database file; nothing leaves your machine except catalog lookups.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format: table or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewSubjectsCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewModelCmd())
	cmd.AddCommand(NewMCPCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
