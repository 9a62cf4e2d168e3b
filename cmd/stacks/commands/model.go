// ABOUTME: Model command group: status and download of the embedding model
// ABOUTME: The model is an optional asset; the catalog works without it
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
	"github.com/stacksapp/stacks/internal/embed"
)

// NewModelCmd creates the model command group
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage the local embedding model",
		Long: `Manage the local embedding model used for semantic search.

The model is downloaded once and stored next to the catalog database.
Without it, sync skips the embedding stage and semantic search is
unavailable; everything else works normally.`,
	}

	cmd.AddCommand(newModelStatusCmd())
	cmd.AddCommand(newModelDownloadCmd())

	return cmd
}

func newModelStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the model is downloaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir := resolveModelDir(cfg)

			if embed.ModelAvailable(dir) {
				fmt.Fprintf(cmd.OutOrStdout(), "Model: downloaded\n")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Model: not downloaded (run 'stacks model download')\n")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Path:  %s\n", dir)
			return nil
		},
	}
}

func newModelDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download the embedding model",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir := resolveModelDir(cfg)

			if embed.ModelAvailable(dir) {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "Model already downloaded")
				}
				return nil
			}

			var lastPercent int
			progress := func(p embed.DownloadProgress) {
				if quiet {
					return
				}
				percent := int(p.Percent)
				if percent != lastPercent {
					lastPercent = percent
					fmt.Fprintf(cmd.OutOrStdout(), "\rDownloading %s: %d%%", p.File, percent)
				}
			}

			if err := embed.DownloadModel(dir, progress); err != nil {
				return fmt.Errorf("downloading model: %w", err)
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "\nModel downloaded to %s\n", dir)
			}
			return nil
		},
	}
}
