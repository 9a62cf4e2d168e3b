// ABOUTME: List command for paginated catalog browsing
// ABOUTME: Substring filters, sorting, and table or JSON output
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stacksapp/stacks/internal/config"
)

var (
	listPage    int
	listPerPage int
	listSortBy  string
	listSortDir string
	listFilters []string
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the catalog",
		Long: `List books with pagination, sorting, and substring filters.

Filters take the form field:value where field is one of all, title,
author, description, or subject. A filter without a colon matches any
field. Sorting by year puts books without a publish year last.

Examples:
  stacks list
  stacks list --sort year --dir desc
  stacks list --filter author:leguin --filter subject:"science fiction"`,
		RunE: runList,
	}

	cmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	cmd.Flags().IntVar(&listPerPage, "per-page", 50, "Books per page")
	cmd.Flags().StringVar(&listSortBy, "sort", "title", "Sort column: title, author, or year")
	cmd.Flags().StringVar(&listSortDir, "dir", "asc", "Sort direction: asc or desc")
	cmd.Flags().StringArrayVar(&listFilters, "filter", nil, "Filter as field:value (repeatable)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(listPage, "page"); err != nil {
		return err
	}
	if err := validatePositiveInt(listPerPage, "per-page"); err != nil {
		return err
	}
	chips, err := parseFilterChips(listFilters)
	if err != nil {
		return err
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

	offset := (listPage - 1) * listPerPage
	books, err := store.AllBooks(listPerPage, offset, listSortBy, listSortDir, chips)
	if err != nil {
		return fmt.Errorf("listing books: %w", err)
	}
	total, err := store.BookCount(chips)
	if err != nil {
		return fmt.Errorf("counting books: %w", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(map[string]interface{}{
			"books":    books,
			"page":     listPage,
			"per_page": listPerPage,
			"total":    total,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if len(books) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No books on this page")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ASIN\tTITLE\tAUTHORS\tYEAR\tREAD\n")
	fmt.Fprintf(w, "----\t-----\t-------\t----\t----\n")
	for _, book := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\n",
			book.ASIN,
			truncate(book.Title, 40),
			truncate(joinAuthors(book.Authors), 30),
			formatYear(book.PublishYear),
			book.PercentRead)
	}
	w.Flush()

	if !quiet {
		totalPages := (total + listPerPage - 1) / listPerPage
		fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d (%d books)\n", listPage, totalPages, total)
	}
	return nil
}
