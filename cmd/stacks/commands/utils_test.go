// ABOUTME: Tests for CLI utility helpers
// ABOUTME: Covers truncation, flag validation, and filter parsing
package commands

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is definitely too long", 10, "this is..."},
		{"日本語のタイトルは長い", 8, "日本語のタ..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestValidatePositiveInt(t *testing.T) {
	if err := validatePositiveInt(5, "limit"); err != nil {
		t.Errorf("validatePositiveInt(5) = %v, want nil", err)
	}
	if err := validatePositiveInt(0, "limit"); err == nil {
		t.Error("validatePositiveInt(0) = nil, want error")
	}
	if err := validatePositiveInt(-1, "limit"); err == nil || !strings.Contains(err.Error(), "limit") {
		t.Errorf("validatePositiveInt(-1) = %v, want error naming the flag", err)
	}
}

func TestParseFilterChips(t *testing.T) {
	chips, err := parseFilterChips([]string{"author:leguin", "subject:science fiction", "dune"})
	if err != nil {
		t.Fatalf("parseFilterChips() error = %v", err)
	}
	if len(chips) != 3 {
		t.Fatalf("got %d chips, want 3", len(chips))
	}
	if chips[0].Field != "author" || chips[0].Value != "leguin" {
		t.Errorf("chips[0] = %+v", chips[0])
	}
	if chips[1].Field != "subject" || chips[1].Value != "science fiction" {
		t.Errorf("chips[1] = %+v", chips[1])
	}
	if chips[2].Field != "all" || chips[2].Value != "dune" {
		t.Errorf("bare filter = %+v, want all-field chip", chips[2])
	}
}

func TestParseFilterChipsEmptyValue(t *testing.T) {
	if _, err := parseFilterChips([]string{"author:"}); err == nil {
		t.Error("parseFilterChips(author:) = nil error, want error")
	}
}

func TestJoinAuthors(t *testing.T) {
	if got := joinAuthors(nil); got != "-" {
		t.Errorf("joinAuthors(nil) = %q, want -", got)
	}
	if got := joinAuthors([]string{"A", "B"}); got != "A; B" {
		t.Errorf("joinAuthors() = %q", got)
	}
}
