// ABOUTME: Embedding vector storage and nearest-neighbor search
// ABOUTME: Vectors are fixed-width little-endian float32 blobs, dim 768
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/stacksapp/stacks/internal/models"
)

// Dimension is the fixed embedding dimension for the catalog vector table.
const Dimension = 768

// BooksForEmbedding returns books that have a non-empty-description
// enrichment record but no embedding yet: the work queue for the embed
// stage. Embeddings are never computed for books lacking enrichment.
func (s *Store) BooksForEmbedding() ([]models.EmbeddingSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT b.asin, b.title, b.authors, m.description
		FROM books b
		JOIN metadata m ON b.asin = m.asin
		LEFT JOIN books_vec v ON b.asin = v.asin
		WHERE v.asin IS NULL AND m.description IS NOT NULL AND m.description != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("listing books for embedding: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []models.EmbeddingSource
	for rows.Next() {
		var (
			src     models.EmbeddingSource
			authors sql.NullString
		)
		if err := rows.Scan(&src.ASIN, &src.Title, &authors, &src.Description); err != nil {
			return nil, fmt.Errorf("scanning embedding source: %w", err)
		}
		src.Authors = parseJSONList(authors)
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// SaveEmbedding inserts or replaces the vector for one book. A vector of
// the wrong length is a caller programming error, not a recoverable
// condition.
func (s *Store) SaveEmbedding(asin string, vector []float32) error {
	if len(vector) != Dimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", Dimension, len(vector))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO books_vec (asin, embedding) VALUES (?, ?)
	`, asin, EncodeVector(vector))
	if err != nil {
		return fmt.Errorf("saving embedding for %s: %w", asin, err)
	}
	return nil
}

// SearchVector returns the k nearest books to the query embedding by
// cosine distance, ascending. The query vector must match the stored
// dimension.
func (s *Store) SearchVector(embedding []float32, limit int) ([]models.BookDetail, error) {
	if len(embedding) != Dimension {
		return nil, fmt.Errorf("invalid query dimension: expected %d, got %d", Dimension, len(embedding))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT `+detailColumns+`, v.embedding
		FROM books_vec v
		JOIN books b ON v.asin = b.asin
		LEFT JOIN metadata m ON b.asin = m.asin
	`)
	if err != nil {
		return nil, fmt.Errorf("scanning vector table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []models.BookDetail
	for rows.Next() {
		var blob []byte
		detail, err := scanDetail(rows.Scan, &blob)
		if err != nil {
			return nil, fmt.Errorf("scanning vector row: %w", err)
		}
		distance := cosineDistance(embedding, DecodeVector(blob))
		detail.Distance = &distance
		results = append(results, *detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vector rows: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return *results[i].Distance < *results[j].Distance
	})
	// A non-positive limit means unlimited; slicing with it would panic.
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// EncodeVector serializes a float32 vector to a little-endian binary blob.
func EncodeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// DecodeVector deserializes a little-endian binary blob to a float32 vector.
func DecodeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero-norm
// vectors get the maximum distance rather than an error so one corrupt row
// cannot fail a whole search.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
