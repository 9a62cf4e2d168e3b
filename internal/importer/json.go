// ABOUTME: Parses vendor library export JSON into imported book records
// ABOUTME: Deduplicates by item id; records without an id are skipped
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/stacksapp/stacks/internal/models"
)

// exportRecord is one entry of the vendor export, which uses camelCase
// field names.
type exportRecord struct {
	ASIN         string   `json:"asin"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	CoverURL     string   `json:"coverUrl"`
	PercentRead  int      `json:"percentageRead"`
	ResourceType string   `json:"resourceType"`
	OriginType   string   `json:"originType"`
}

// ParseFile reads a vendor export JSON file and returns the deduplicated
// list of imported books.
func ParseFile(path string) ([]models.ImportedBook, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export file: %w", err)
	}
	defer func() { _ = file.Close() }()

	books, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return books, nil
}

// Parse decodes a JSON array of export records. Duplicate ids keep the
// first occurrence; entries with no id are dropped.
func Parse(r io.Reader) ([]models.ImportedBook, error) {
	var records []exportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding export JSON: %w", err)
	}

	seen := make(map[string]bool, len(records))
	books := make([]models.ImportedBook, 0, len(records))
	for _, rec := range records {
		if rec.ASIN == "" || seen[rec.ASIN] {
			continue
		}
		seen[rec.ASIN] = true

		authors := rec.Authors
		if authors == nil {
			authors = []string{}
		}

		books = append(books, models.ImportedBook{
			ASIN:         rec.ASIN,
			Title:        rec.Title,
			Authors:      authors,
			CoverURL:     rec.CoverURL,
			PercentRead:  rec.PercentRead,
			ResourceType: rec.ResourceType,
			OriginType:   rec.OriginType,
		})
	}

	return books, nil
}
