// ABOUTME: Clear command wiping enrichment metadata and embeddings
// ABOUTME: Destructive, so it requires an explicit --yes
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
)

var clearConfirmed bool

// NewClearCmd creates the clear-metadata command
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-metadata",
		Short: "Delete all enrichment metadata and embeddings",
		Long: `Delete every metadata record and embedding so the next sync
re-enriches the whole catalog from scratch. Book records themselves are
kept. This cannot be undone.`,
		RunE: runClear,
	}

	cmd.Flags().BoolVar(&clearConfirmed, "yes", false, "Confirm the deletion")

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if !clearConfirmed {
		return fmt.Errorf("refusing to clear metadata without --yes")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cleared, err := store.ClearMetadata()
	if err != nil {
		return fmt.Errorf("clearing metadata: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared metadata for %d book(s)\n", cleared)
	}
	return nil
}
