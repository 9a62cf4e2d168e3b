// ABOUTME: Lexical full-text index: wholesale rebuild and BM25-ranked search
// ABOUTME: The FTS table is a derived cache, never patched incrementally
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/stacksapp/stacks/internal/models"
	"github.com/stacksapp/stacks/internal/search"
)

// RebuildFTS repopulates the lexical index from the current join of books
// and metadata. Must be called after any bulk mutation to those tables;
// the index is not kept in sync incrementally.
func (s *Store) RebuildFTS() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildFTS()
}

// rebuildFTS assumes the caller holds mu.
func (s *Store) rebuildFTS() error {
	if _, err := s.db.Exec("DELETE FROM books_fts"); err != nil {
		return fmt.Errorf("clearing lexical index: %w", err)
	}
	_, err := s.db.Exec(`
		INSERT INTO books_fts (asin, title, authors, description, subjects)
		SELECT b.asin, b.title, b.authors, COALESCE(m.description, ''), COALESCE(m.subjects, '')
		FROM books b
		LEFT JOIN metadata m ON b.asin = m.asin
	`)
	if err != nil {
		return fmt.Errorf("rebuilding lexical index: %w", err)
	}
	return nil
}

// SearchLexical runs a raw FTS5 query ranked by BM25 relevance. bm25()
// returns more-negative values for better matches, so ascending order
// puts the best results first.
func (s *Store) SearchLexical(query string, limit int) ([]models.BookDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT `+detailColumns+`, bm25(books_fts) AS rank
		FROM books_fts f
		JOIN books b ON f.asin = b.asin
		LEFT JOIN metadata m ON b.asin = m.asin
		WHERE books_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRanked(rows)
}

// SearchFiltered runs an AND-composed lexical query built from chips, with
// pagination and column sort. An empty chip list degrades to unfiltered
// browsing.
func (s *Store) SearchFiltered(chips []search.Chip, limit, offset int, sortBy, sortDir string) ([]models.BookDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(chips) == 0 {
		return s.allBooks(limit, offset, sortBy, sortDir, nil)
	}

	query := fmt.Sprintf(`
		SELECT %s, bm25(books_fts) AS rank
		FROM books_fts f
		JOIN books b ON f.asin = b.asin
		LEFT JOIN metadata m ON b.asin = m.asin
		WHERE books_fts MATCH ?
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, detailColumns, orderClause(sortBy, sortDir, true))

	rows, err := s.db.Query(query, search.MatchQuery(chips), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("filtered search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRanked(rows)
}

// FilteredCount returns the number of books matching the chips on the
// lexical path.
func (s *Store) FilteredCount(chips []search.Chip) (int, error) {
	if len(chips) == 0 {
		return s.BookCount(nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM books_fts WHERE books_fts MATCH ?
	`, search.MatchQuery(chips)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting filtered books: %w", err)
	}
	return count, nil
}

// collectRanked scans detail rows carrying a trailing rank column.
func collectRanked(rows *sql.Rows) ([]models.BookDetail, error) {
	var details []models.BookDetail
	for rows.Next() {
		var rank float64
		detail, err := scanDetail(rows.Scan, &rank)
		if err != nil {
			return nil, fmt.Errorf("scanning ranked row: %w", err)
		}
		detail.Rank = &rank
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading ranked rows: %w", err)
	}
	return details, nil
}
