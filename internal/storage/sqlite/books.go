// ABOUTME: Primary book record operations: import, lookup, browse
// ABOUTME: Import is insert-or-ignore; records are never overwritten or deleted
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stacksapp/stacks/internal/models"
	"github.com/stacksapp/stacks/internal/search"
)

// ImportBooks inserts records by item id, ignoring ids already present.
// Returns the number of newly inserted rows. Import never overwrites an
// existing record.
func (s *Store) ImportBooks(books []models.ImportedBook) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, book := range books {
		authorsJSON, err := json.Marshal(book.Authors)
		if err != nil {
			return count, fmt.Errorf("encoding authors for %s: %w", book.ASIN, err)
		}
		res, err := s.db.Exec(`
			INSERT OR IGNORE INTO books (asin, title, authors, cover_url, percent_read, resource_type, origin_type)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, book.ASIN, book.Title, string(authorsJSON), book.CoverURL, book.PercentRead, book.ResourceType, book.OriginType)
		if err != nil {
			return count, fmt.Errorf("inserting book %s: %w", book.ASIN, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return count, fmt.Errorf("reading insert result for %s: %w", book.ASIN, err)
		}
		count += int(rows)
	}
	return count, nil
}

// BookByASIN returns a single book with its enrichment, or nil when absent.
func (s *Store) BookByASIN(asin string) (*models.BookDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT `+detailColumns+`
		FROM books b
		LEFT JOIN metadata m ON b.asin = m.asin
		WHERE b.asin = ?
	`, asin)

	detail, err := scanDetail(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up book %s: %w", asin, err)
	}
	return detail, nil
}

// AllBooks returns a page of the catalog with optional column sort and
// substring filters. An empty chip list is plain pagination.
func (s *Store) AllBooks(limit, offset int, sortBy, sortDir string, chips []search.Chip) ([]models.BookDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allBooks(limit, offset, sortBy, sortDir, chips)
}

// allBooks assumes the caller holds mu.
func (s *Store) allBooks(limit, offset int, sortBy, sortDir string, chips []search.Chip) ([]models.BookDetail, error) {
	whereClause, args := search.LikeClause(chips)

	query := fmt.Sprintf(`
		SELECT %s
		FROM books b
		LEFT JOIN metadata m ON b.asin = m.asin
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?
	`, detailColumns, whereClause, orderClause(sortBy, sortDir, false))

	args = append(args, limit, offset)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectDetails(rows)
}

// BookCount returns the number of books matching the chips, or the total
// catalog size for an empty chip list.
func (s *Store) BookCount(chips []search.Chip) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	whereClause, args := search.LikeClause(chips)
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM books b
		LEFT JOIN metadata m ON b.asin = m.asin
		%s
	`, whereClause)

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return count, nil
}

// Subjects returns the sorted set of distinct subject tags across all
// enrichment records.
func (s *Store) Subjects() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT subjects FROM metadata
		WHERE subjects IS NOT NULL AND subjects != '[]'
	`)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	seen := make(map[string]bool)
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning subjects: %w", err)
		}
		for _, subject := range parseJSONList(raw) {
			seen[subject] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading subjects: %w", err)
	}

	subjects := make([]string, 0, len(seen))
	for subject := range seen {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// collectDetails scans all remaining rows of a detailColumns query.
func collectDetails(rows *sql.Rows) ([]models.BookDetail, error) {
	var details []models.BookDetail
	for rows.Next() {
		detail, err := scanDetail(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}
		details = append(details, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading book rows: %w", err)
	}
	return details, nil
}
