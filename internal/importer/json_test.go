// ABOUTME: Tests for vendor export JSON parsing
// ABOUTME: Covers dedup, missing ids, and camelCase field mapping
package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDeduplicatesByID(t *testing.T) {
	input := `[
		{"asin": "B001", "title": "First", "authors": ["A"], "percentageRead": 40},
		{"asin": "B002", "title": "Second", "authors": []},
		{"asin": "B001", "title": "Duplicate of First"},
		{"asin": "", "title": "No id"}
	]`

	books, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("Parse() returned %d books, want 2", len(books))
	}
	if books[0].ASIN != "B001" || books[0].Title != "First" {
		t.Errorf("first book = %+v, want original B001 kept", books[0])
	}
	if books[0].PercentRead != 40 {
		t.Errorf("percent read = %d, want 40", books[0].PercentRead)
	}
	if books[1].ASIN != "B002" {
		t.Errorf("second book = %+v, want B002", books[1])
	}
}

func TestParseMapsVendorFields(t *testing.T) {
	input := `[{
		"asin": "B003",
		"title": "Mapped",
		"authors": ["Card, Orson Scott"],
		"coverUrl": "https://img.example/b003.jpg",
		"resourceType": "EBOOK",
		"originType": "Purchase"
	}]`

	books, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	book := books[0]
	if book.CoverURL != "https://img.example/b003.jpg" {
		t.Errorf("cover url = %q", book.CoverURL)
	}
	if book.ResourceType != "EBOOK" || book.OriginType != "Purchase" {
		t.Errorf("type tags = %q/%q", book.ResourceType, book.OriginType)
	}
}

func TestParseNilAuthorsBecomeEmptyList(t *testing.T) {
	books, err := Parse(strings.NewReader(`[{"asin": "B004", "title": "No authors"}]`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if books[0].Authors == nil || len(books[0].Authors) != 0 {
		t.Errorf("authors = %#v, want empty non-nil list", books[0].Authors)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	if _, err := Parse(strings.NewReader(`{"not": "an array"`)); err == nil {
		t.Error("Parse() with invalid JSON succeeded, want error")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(`[{"asin": "B005", "title": "On disk"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	books, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(books) != 1 || books[0].ASIN != "B005" {
		t.Errorf("ParseFile() = %+v", books)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ParseFile() with missing file succeeded, want error")
	}
}
