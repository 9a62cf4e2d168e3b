// ABOUTME: Unified catalog store owning all persisted entities
// ABOUTME: Serializes every operation on one mutex per the shared-handle contract
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stacksapp/stacks/internal/models"
)

// Store is the only component permitted to mutate the database. Every
// public method holds mu for its duration; unexported helpers assume the
// caller already holds it.
type Store struct {
	db *DB
	mu sync.Mutex
}

// NewStore opens the catalog database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreInMemory creates an in-memory store (for testing).
func NewStoreInMemory() (*Store, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Stats returns catalog counts.
func (s *Store) Stats() (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &models.Stats{}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM books").Scan(&stats.TotalBooks); err != nil {
		return nil, fmt.Errorf("counting books: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM metadata").Scan(&stats.Enriched); err != nil {
		return nil, fmt.Errorf("counting metadata: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM books_vec").Scan(&stats.WithEmbeddings); err != nil {
		return nil, fmt.Errorf("counting embeddings: %w", err)
	}
	return stats, nil
}

// parseJSONList decodes a JSON string array, recovering corrupt or NULL
// input to an empty list. Corrupt auxiliary data must never block
// retrieval of the primary record.
func parseJSONList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		return []string{}
	}
	return list
}

// detailColumns is the shared select list for BookDetail queries.
const detailColumns = `b.asin, b.title, b.authors, b.cover_url, b.percent_read,
       b.resource_type, b.origin_type,
       m.description, m.subjects, m.publish_year, m.isbn, m.openlibrary_key`

// scanDetail maps one joined row (detailColumns, plus extra targets such as
// rank or distance) into a BookDetail.
func scanDetail(scan func(dest ...any) error, extra ...any) (*models.BookDetail, error) {
	var (
		detail      models.BookDetail
		authors     sql.NullString
		coverURL    sql.NullString
		resource    sql.NullString
		origin      sql.NullString
		description sql.NullString
		subjects    sql.NullString
		publishYear sql.NullInt64
		isbn        sql.NullString
		olKey       sql.NullString
	)

	dest := []any{
		&detail.ASIN, &detail.Title, &authors, &coverURL, &detail.PercentRead,
		&resource, &origin,
		&description, &subjects, &publishYear, &isbn, &olKey,
	}
	dest = append(dest, extra...)

	if err := scan(dest...); err != nil {
		return nil, err
	}

	detail.Authors = parseJSONList(authors)
	detail.CoverURL = coverURL.String
	detail.ResourceType = resource.String
	detail.OriginType = origin.String
	detail.Description = description.String
	detail.Subjects = parseJSONList(subjects)
	if publishYear.Valid {
		year := int(publishYear.Int64)
		detail.PublishYear = &year
	}
	detail.ISBN = isbn.String
	detail.OpenLibraryKey = olKey.String

	return &detail, nil
}

// orderClause renders the sort algorithm shared by browse and filtered
// search: author sorts by the first list element, year keeps nulls last in
// both directions, default is title. "rank" sorts by lexical relevance and
// is honored only when hasRank says the query selects the bm25 column; on
// the browse path it degrades to the title sort.
func orderClause(sortBy, sortDir string, hasRank bool) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "author":
		return fmt.Sprintf("json_extract(b.authors, '$[0]') %s", dir)
	case "year":
		return fmt.Sprintf("m.publish_year %s NULLS LAST", dir)
	case "rank":
		if hasRank {
			return "rank"
		}
		return fmt.Sprintf("b.title %s", dir)
	default:
		return fmt.Sprintf("b.title %s", dir)
	}
}
