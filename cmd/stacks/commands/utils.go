// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Filter parsing, truncation, and flag validation
package commands

import (
	"fmt"
	"strings"

	"github.com/stacksapp/stacks/internal/search"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// parseFilterChips converts "field:value" CLI arguments into search chips.
// A bare value with no colon filters across all fields.
func parseFilterChips(filters []string) ([]search.Chip, error) {
	chips := make([]search.Chip, 0, len(filters))
	for _, f := range filters {
		field, value, found := strings.Cut(f, ":")
		if !found {
			chips = append(chips, search.Chip{Field: "all", Value: strings.TrimSpace(f)})
			continue
		}
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("filter %q has no value", f)
		}
		chips = append(chips, search.Chip{Field: field, Value: value})
	}
	return chips, nil
}

// joinAuthors renders an author list for table output.
func joinAuthors(authors []string) string {
	if len(authors) == 0 {
		return "-"
	}
	return strings.Join(authors, "; ")
}
