// ABOUTME: Subjects command listing distinct subject tags
// ABOUTME: Useful as input for list and browse filters
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
)

// NewSubjectsCmd creates the subjects command
func NewSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List all distinct subjects",
		Long:  `List every distinct subject tag across the catalog, sorted alphabetically.`,
		RunE:  runSubjects,
	}
}

func runSubjects(cmd *cobra.Command, args []string) error {
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

	subjects, err := store.Subjects()
	if err != nil {
		return fmt.Errorf("listing subjects: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(subjects, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	for _, s := range subjects {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d subject(s)\n", len(subjects))
	}
	return nil
}
