// ABOUTME: Book catalog models shared across storage, pipeline, and search
// ABOUTME: Defines Book, BookDetail, Enrichment, and ImportedBook structures
package models

// Book is a row from the books table, keyed by the vendor item id (ASIN).
type Book struct {
	ASIN         string   `json:"asin"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	CoverURL     string   `json:"cover_url,omitempty"`
	PercentRead  int      `json:"percent_read"`
	ResourceType string   `json:"resource_type,omitempty"`
	OriginType   string   `json:"origin_type,omitempty"`
}

// BookDetail is a book joined with its enrichment record, as returned by
// search and browse queries. Rank is set on lexical results, Distance on
// vector results.
type BookDetail struct {
	ASIN           string   `json:"asin"`
	Title          string   `json:"title"`
	Authors        []string `json:"authors"`
	CoverURL       string   `json:"cover_url,omitempty"`
	PercentRead    int      `json:"percent_read"`
	ResourceType   string   `json:"resource_type,omitempty"`
	OriginType     string   `json:"origin_type,omitempty"`
	Description    string   `json:"description,omitempty"`
	Subjects       []string `json:"subjects"`
	PublishYear    *int     `json:"publish_year,omitempty"`
	ISBN           string   `json:"isbn,omitempty"`
	OpenLibraryKey string   `json:"openlibrary_key,omitempty"`
	Rank           *float64 `json:"rank,omitempty"`
	Distance       *float64 `json:"distance,omitempty"`
}

// Enrichment is bibliographic metadata fetched from the catalog for one
// book. A record with an empty description and no subjects is a valid
// "attempted, nothing found" tombstone: its existence, not its content,
// marks a book as enriched.
type Enrichment struct {
	OpenLibraryKey string   `json:"openlibrary_key"`
	Description    string   `json:"description"`
	Subjects       []string `json:"subjects"`
	ISBN           string   `json:"isbn,omitempty"`
	PublishYear    *int     `json:"publish_year,omitempty"`
}

// EmbeddingSource is a book that has enrichment but no embedding yet.
type EmbeddingSource struct {
	ASIN        string
	Title       string
	Authors     []string
	Description string
}

// ImportedBook is the record produced by an importer from a vendor export.
type ImportedBook struct {
	ASIN         string   `json:"asin"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	CoverURL     string   `json:"cover_url,omitempty"`
	PercentRead  int      `json:"percentage_read"`
	ResourceType string   `json:"resource_type"`
	OriginType   string   `json:"origin_type"`
}

// Stats summarizes catalog state for the UI and CLI.
type Stats struct {
	TotalBooks     int `json:"total_books"`
	Enriched       int `json:"enriched"`
	WithEmbeddings int `json:"with_embeddings"`
}
