// ABOUTME: Enrichment record operations and pipeline work queues
// ABOUTME: Existence of a metadata row marks a book as "enrichment attempted"
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stacksapp/stacks/internal/models"
)

// BooksWithoutMetadata returns books with no enrichment record, in other
// words the work queue for the enrich stage. Tombstone rows keep a book
// out of this list.
func (s *Store) BooksWithoutMetadata() ([]models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT b.asin, b.title, b.authors, b.cover_url, b.percent_read,
		       b.resource_type, b.origin_type
		FROM books b
		LEFT JOIN metadata m ON b.asin = m.asin
		WHERE m.asin IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("listing books without metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

// SaveMetadata inserts or replaces the enrichment record for one book. An
// all-empty Enrichment is the valid "attempted, nothing found" tombstone.
func (s *Store) SaveMetadata(asin string, data *models.Enrichment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjectsJSON, err := json.Marshal(data.Subjects)
	if err != nil {
		return fmt.Errorf("encoding subjects for %s: %w", asin, err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO metadata (asin, openlibrary_key, description, subjects, isbn, publish_year)
		VALUES (?, ?, ?, ?, ?, ?)
	`, asin, data.OpenLibraryKey, data.Description, string(subjectsJSON), nullIfEmpty(data.ISBN), data.PublishYear)
	if err != nil {
		return fmt.Errorf("saving metadata for %s: %w", asin, err)
	}
	return nil
}

// ClearMetadata deletes all enrichment and embedding records and rebuilds
// the lexical index to match. Embeddings depend on enriched descriptions,
// so the invariant is restored by deleting them, never by leaving them
// dangling. Returns the number of enrichment records removed.
func (s *Store) ClearMetadata() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM metadata")
	if err != nil {
		return 0, fmt.Errorf("clearing metadata: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading clear result: %w", err)
	}

	if _, err := s.db.Exec("DELETE FROM books_vec"); err != nil {
		return int(count), fmt.Errorf("clearing embeddings: %w", err)
	}

	if err := s.rebuildFTS(); err != nil {
		return int(count), err
	}
	return int(count), nil
}

// scanBook maps a books-table row.
func scanBook(scan func(dest ...any) error) (*models.Book, error) {
	var (
		book     models.Book
		authors  sql.NullString
		coverURL sql.NullString
		resource sql.NullString
		origin   sql.NullString
	)
	if err := scan(&book.ASIN, &book.Title, &authors, &coverURL, &book.PercentRead, &resource, &origin); err != nil {
		return nil, err
	}
	book.Authors = parseJSONList(authors)
	book.CoverURL = coverURL.String
	book.ResourceType = resource.String
	book.OriginType = origin.String
	return &book, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
