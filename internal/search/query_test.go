// ABOUTME: Tests for chip-to-query rendering and escaping
// ABOUTME: Verifies field scoping, author tokenization, and quote doubling
package search

import (
	"reflect"
	"strings"
	"testing"
)

func TestMatchQueryFields(t *testing.T) {
	tests := []struct {
		name  string
		chips []Chip
		want  string
	}{
		{
			name:  "title phrase",
			chips: []Chip{{Field: "title", Value: "ender's game"}},
			want:  `title:"ender's game"`,
		},
		{
			name:  "author splits into words",
			chips: []Chip{{Field: "author", Value: "orson card"}},
			want:  `authors:"orson" authors:"card"`,
		},
		{
			name:  "subject maps to subjects column",
			chips: []Chip{{Field: "subject", Value: "science fiction"}},
			want:  `subjects:"science fiction"`,
		},
		{
			name:  "description phrase",
			chips: []Chip{{Field: "description", Value: "coming of age"}},
			want:  `description:"coming of age"`,
		},
		{
			name:  "all is unscoped",
			chips: []Chip{{Field: "all", Value: "dragons"}},
			want:  `"dragons"`,
		},
		{
			name:  "unknown field is unscoped",
			chips: []Chip{{Field: "whatever", Value: "dragons"}},
			want:  `"dragons"`,
		},
		{
			name: "chips are AND-ed in order",
			chips: []Chip{
				{Field: "title", Value: "dune"},
				{Field: "author", Value: "frank herbert"},
			},
			want: `title:"dune" authors:"frank" authors:"herbert"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchQuery(tc.chips)
			if got != tc.want {
				t.Errorf("MatchQuery() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMatchQueryEscapesQuotes(t *testing.T) {
	got := MatchQuery([]Chip{{Field: "title", Value: `say "friend" and enter`}})
	want := `title:"say ""friend"" and enter"`
	if got != want {
		t.Errorf("MatchQuery() = %q, want %q", got, want)
	}

	// A quoted author name must stay balanced after word splitting too.
	got = MatchQuery([]Chip{{Field: "author", Value: `o"brien`}})
	if strings.Count(got, `"`)%2 != 0 {
		t.Errorf("MatchQuery() produced unbalanced quotes: %q", got)
	}
}

func TestTermsAuthorTokenization(t *testing.T) {
	terms := Terms([]Chip{{Field: "author", Value: "  ursula  k  le guin "}})
	want := []Term{
		{Column: "authors", Value: "ursula"},
		{Column: "authors", Value: "k"},
		{Column: "authors", Value: "le"},
		{Column: "authors", Value: "guin"},
	}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("Terms() = %v, want %v", terms, want)
	}
}

func TestLikeClause(t *testing.T) {
	clause, args := LikeClause([]Chip{
		{Field: "title", Value: "dune"},
		{Field: "subject", Value: "Fantasy"},
		{Field: "bogus", Value: "ignored"},
	})

	if !strings.HasPrefix(clause, "WHERE ") {
		t.Errorf("clause = %q, want WHERE prefix", clause)
	}
	if !strings.Contains(clause, "b.title LIKE '%' || ? || '%'") {
		t.Errorf("clause missing title predicate: %q", clause)
	}
	if !strings.Contains(clause, `m.subjects LIKE '%"' || ? || '"%'`) {
		t.Errorf("clause missing subject element predicate: %q", clause)
	}
	if !strings.Contains(clause, " AND ") {
		t.Errorf("clause not AND-composed: %q", clause)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 values", args)
	}
	if args[0] != "dune" || args[1] != "Fantasy" {
		t.Errorf("args = %v", args)
	}
}

func TestLikeClauseEmpty(t *testing.T) {
	clause, args := LikeClause(nil)
	if clause != "" || args != nil {
		t.Errorf("LikeClause(nil) = %q, %v; want empty", clause, args)
	}

	clause, args = LikeClause([]Chip{{Field: "all", Value: "x"}})
	if clause != "" || args != nil {
		t.Errorf("LikeClause(all-only) = %q, %v; want empty", clause, args)
	}
}
