// ABOUTME: Query builder turning filter chips into FTS5 match strings
// ABOUTME: Centralizes escaping so it is testable apart from the storage engine
package search

import "strings"

// Chip is one user-specified (field, value) search filter. Field is one of
// "all", "title", "author", "description", "subject"; anything else is
// treated as "all" on the lexical path and skipped on the substring path.
type Chip struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Term is one required lexical term with an optional column scope. An empty
// Column means the term matches any indexed column.
type Term struct {
	Column string
	Value  string
}

// ftsColumns maps chip fields to FTS5 index columns.
var ftsColumns = map[string]string{
	"title":       "title",
	"author":      "authors",
	"description": "description",
	"subject":     "subjects",
}

// Terms expands chips into the intermediate list of required terms.
//
// Author chips are split on whitespace into one term per word: author names
// are stored as JSON arrays like ["Card, Orson Scott"], so the parts of a
// name are not adjacent tokens and a phrase would never match. All other
// fields become a single phrase term.
func Terms(chips []Chip) []Term {
	var terms []Term
	for _, chip := range chips {
		if chip.Field == "author" {
			for _, word := range strings.Fields(chip.Value) {
				terms = append(terms, Term{Column: "authors", Value: word})
			}
			continue
		}
		terms = append(terms, Term{Column: ftsColumns[chip.Field], Value: chip.Value})
	}
	return terms
}

// MatchQuery renders chips to an FTS5 MATCH expression. Terms are joined
// with spaces, which FTS5 treats as AND.
func MatchQuery(chips []Chip) string {
	terms := Terms(chips)
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.render())
	}
	return strings.Join(parts, " ")
}

// render produces `column:"value"` with embedded quotes doubled. Doubling
// keeps the literal content while staying valid FTS5 syntax; stripping
// would silently change what the user asked for.
func (t Term) render() string {
	escaped := strings.ReplaceAll(t.Value, `"`, `""`)
	if t.Column == "" {
		return `"` + escaped + `"`
	}
	return t.Column + `:"` + escaped + `"`
}

// likeColumns maps chip fields to the joined-query columns used by the
// substring browse path.
var likeColumns = map[string]string{
	"title":       "b.title",
	"author":      "b.authors",
	"description": "m.description",
	"subject":     "m.subjects",
}

// LikeClause renders chips to an AND-composed WHERE clause of substring
// predicates with positional parameters. Subject chips match an exact JSON
// array element (the value wrapped in quotes); other fields are plain
// case-insensitive substring matches. Unknown fields are skipped. Returns
// an empty clause when no chip produced a predicate.
func LikeClause(chips []Chip) (string, []any) {
	var conditions []string
	var args []any
	for _, chip := range chips {
		column, ok := likeColumns[chip.Field]
		if !ok {
			continue
		}
		if chip.Field == "subject" {
			conditions = append(conditions, column+` LIKE '%"' || ? || '"%'`)
		} else {
			conditions = append(conditions, column+` LIKE '%' || ? || '%'`)
		}
		args = append(args, chip.Value)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
