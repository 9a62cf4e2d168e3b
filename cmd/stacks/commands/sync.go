// ABOUTME: Sync command running the import, enrich, and embed pipeline
// ABOUTME: Streams progress to stdout unless quiet
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
	"github.com/stacksapp/stacks/internal/models"
)

// NewSyncCmd creates the sync command
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [export-file]",
		Short: "Sync the catalog: import, enrich, embed",
		Long: `Run the sync pipeline against the local SQLite catalog.

With an export file, new books are imported first (existing records are
never overwritten). Books without metadata are then enriched from
OpenLibrary, and enriched books without vectors get embeddings if the
model is available.

Examples:
  stacks sync                      # enrich and embed what's pending
  stacks sync library-export.json  # import first, then enrich and embed`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSync,
	}

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orchestrator, _, err := newOrchestrator(cfg, store)
	if err != nil {
		return err
	}

	importPath := ""
	if len(args) == 1 {
		importPath = args[0]
	}

	progress := func(p models.Progress) {
		if quiet {
			return
		}
		if p.Current != nil && p.Total != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s (%d/%d)\n", p.Stage, p.Message, *p.Current, *p.Total)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", p.Stage, p.Message)
		}
	}

	stats, err := orchestrator.Run(importPath, progress)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	}

	return nil
}
