// ABOUTME: Deterministic composition of book fields into embedding text
// ABOUTME: Index and query must embed identically composed text
package embed

import "strings"

// ComposeText concatenates title, "by <authors>", and description into the
// exact text that gets embedded. Queries embedded from differently composed
// text silently degrade search quality, so this is the single place the
// composition lives.
func ComposeText(title string, authors []string, description string) string {
	parts := []string{title}
	if len(authors) > 0 {
		parts = append(parts, "by "+strings.Join(authors, ", "))
	}
	if description != "" {
		parts = append(parts, description)
	}
	return strings.Join(parts, " ")
}
