// ABOUTME: SQLite schema for the book catalog
// ABOUTME: Primary table, enrichment table, FTS5 lexical index, vector table
package sqlite

// Schema contains all SQL statements for database initialization.
//
// books is the primary record store; metadata and books_vec are 1:1 side
// tables keyed by the same asin. books_fts is a derived cache rebuilt
// wholesale by RebuildFTS, never patched incrementally.
const Schema = `
-- Primary book records, keyed by vendor item id
CREATE TABLE IF NOT EXISTS books (
    asin TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    authors TEXT NOT NULL DEFAULT '[]',
    cover_url TEXT,
    percent_read INTEGER NOT NULL DEFAULT 0,
    resource_type TEXT,
    origin_type TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Enrichment records; existence marks "enrichment attempted"
CREATE TABLE IF NOT EXISTS metadata (
    asin TEXT PRIMARY KEY REFERENCES books(asin) ON DELETE CASCADE,
    openlibrary_key TEXT,
    description TEXT,
    subjects TEXT,
    isbn TEXT,
    publish_year INTEGER,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Embedding vectors as little-endian float32 blobs
CREATE TABLE IF NOT EXISTS books_vec (
    asin TEXT PRIMARY KEY REFERENCES books(asin) ON DELETE CASCADE,
    embedding BLOB NOT NULL
);

-- Lexical full-text index over books joined with metadata
CREATE VIRTUAL TABLE IF NOT EXISTS books_fts USING fts5(
    asin UNINDEXED,
    title,
    authors,
    description,
    subjects
);
`
