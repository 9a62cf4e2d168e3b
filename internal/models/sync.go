// ABOUTME: Sync pipeline models for progress reporting and run statistics
// ABOUTME: Ephemeral values consumed by progress observers, never persisted
package models

// Sync stage names carried on Progress events.
const (
	StageImport   = "import"
	StageEnrich   = "enrich"
	StageEmbed    = "embed"
	StageComplete = "complete"
)

// Progress is one structured progress update emitted during a sync run.
// Current and Total are nil for stage-level messages that aren't part of a
// counted loop.
type Progress struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Current *int   `json:"current,omitempty"`
	Total   *int   `json:"total,omitempty"`
}

// SyncStats aggregates the result of one pipeline run. Enriched counts only
// books that gained a non-empty description, not tombstones.
type SyncStats struct {
	Imported int `json:"imported"`
	Enriched int `json:"enriched"`
	Embedded int `json:"embedded"`
}
