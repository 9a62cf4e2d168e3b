// ABOUTME: CLI command to search the catalog
// ABOUTME: Supports BM25 lexical search and semantic vector search
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
	"github.com/stacksapp/stacks/internal/models"
)

var (
	searchLimit    int
	searchSemantic bool
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Search books by keyword or by meaning.

The default lexical mode ranks by BM25 across title, authors, description,
and subjects. Semantic mode embeds the query and ranks by vector
similarity; it requires the embedding model (see 'stacks model').

Examples:
  stacks search "left hand of darkness"
  stacks search --semantic "books about anarchist utopias"
  stacks search --limit 5 --format json dune`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results to return")
	cmd.Flags().BoolVar(&searchSemantic, "semantic", false, "Search by meaning instead of keywords")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query must not be blank")
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

	var results []models.BookDetail
	if searchSemantic {
		backend, err := newBackend(cfg)
		if err != nil {
			return err
		}
		if !backend.Available() {
			return fmt.Errorf("semantic search requires the embedding model; run 'stacks model download' first")
		}
		if err := backend.Init(); err != nil {
			return fmt.Errorf("loading embedding model: %w", err)
		}
		vector, err := backend.Embed(query)
		if err != nil {
			return fmt.Errorf("embedding query: %w", err)
		}
		results, err = store.SearchVector(vector, searchLimit)
		if err != nil {
			return fmt.Errorf("vector search: %w", err)
		}
	} else {
		results, err = store.SearchLexical(query, searchLimit)
		if err != nil {
			return fmt.Errorf("searching catalog: %w", err)
		}
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No books found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tTITLE\tAUTHORS\tYEAR\n")
	fmt.Fprintf(w, "-----\t-----\t-------\t----\n")
	for _, book := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			formatScore(book),
			truncate(book.Title, 40),
			truncate(joinAuthors(book.Authors), 30),
			formatYear(book.PublishYear))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}

// formatScore shows whichever relevance signal the search produced: BM25
// rank for lexical results, cosine distance for semantic ones.
func formatScore(book models.BookDetail) string {
	switch {
	case book.Rank != nil:
		return fmt.Sprintf("%.3f", *book.Rank)
	case book.Distance != nil:
		return fmt.Sprintf("%.3f", *book.Distance)
	default:
		return "-"
	}
}

func formatYear(year *int) string {
	if year == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *year)
}
