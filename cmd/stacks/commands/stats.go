// ABOUTME: Stats command showing catalog counts
// ABOUTME: Total books, enriched books, and embedded books
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  `Show how many books are in the catalog, how many have been enriched with metadata, and how many have embeddings.`,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
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

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Books:      %d\n", stats.TotalBooks)
	fmt.Fprintf(cmd.OutOrStdout(), "Enriched:   %d\n", stats.Enriched)
	fmt.Fprintf(cmd.OutOrStdout(), "Embeddings: %d\n", stats.WithEmbeddings)
	return nil
}
