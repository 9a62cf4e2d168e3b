// ABOUTME: Sync orchestrator sequencing import, enrich, and embed stages
// ABOUTME: Streams progress events with elapsed time and a linear ETA
package pipeline

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stacksapp/stacks/internal/embed"
	"github.com/stacksapp/stacks/internal/importer"
	"github.com/stacksapp/stacks/internal/models"
	"github.com/stacksapp/stacks/internal/storage/sqlite"
)

// Enricher looks up catalog metadata for one book. A nil result with a nil
// error means the catalog has no match.
type Enricher interface {
	Search(title string, authors []string) (*models.Enrichment, error)
}

// ProgressFunc receives progress events during a sync run. May be nil.
type ProgressFunc func(models.Progress)

// Orchestrator runs the full sync pipeline. One run executes at a time;
// concurrent calls to Run queue behind the mutex.
type Orchestrator struct {
	mu       sync.Mutex
	store    *sqlite.Store
	enricher Enricher
	backend  Backend
	log      *zap.Logger

	// enrichDelay spaces catalog requests between consecutive books.
	enrichDelay time.Duration

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewOrchestrator wires the pipeline dependencies.
func NewOrchestrator(store *sqlite.Store, enricher Enricher, backend Backend, enrichDelay time.Duration, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		store:       store,
		enricher:    enricher,
		backend:     backend,
		log:         log,
		enrichDelay: enrichDelay,
		sleep:       time.Sleep,
	}
}

// Run executes import, enrich, and embed in order. importPath may be empty
// to skip the import stage. The terminal "complete" event is emitted even
// when every stage was skipped.
func (o *Orchestrator) Run(importPath string, progress ProgressFunc) (models.SyncStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	runID := uuid.New().String()
	log := o.log.With(zap.String("run_id", runID))
	log.Info("sync started", zap.String("import_path", importPath))

	emit := func(p models.Progress) {
		log.Info("sync progress", zap.String("stage", p.Stage), zap.String("message", p.Message))
		if progress != nil {
			progress(p)
		}
	}

	var stats models.SyncStats

	if importPath != "" {
		if err := o.runImport(importPath, &stats, emit); err != nil {
			return stats, err
		}
	}

	if err := o.runEnrich(&stats, emit); err != nil {
		return stats, err
	}

	if err := o.runEmbed(&stats, emit); err != nil {
		return stats, err
	}

	emit(models.Progress{
		Stage: models.StageComplete,
		Message: fmt.Sprintf("Sync complete: %d imported, %d enriched, %d embedded",
			stats.Imported, stats.Enriched, stats.Embedded),
	})
	log.Info("sync finished",
		zap.Int("imported", stats.Imported),
		zap.Int("enriched", stats.Enriched),
		zap.Int("embedded", stats.Embedded))

	return stats, nil
}

func (o *Orchestrator) runImport(path string, stats *models.SyncStats, emit ProgressFunc) error {
	emit(models.Progress{
		Stage:   models.StageImport,
		Message: fmt.Sprintf("Reading %s...", filepath.Base(path)),
	})

	books, err := importer.ParseFile(path)
	if err != nil {
		return err
	}

	emit(models.Progress{
		Stage:   models.StageImport,
		Message: fmt.Sprintf("Found %d books", len(books)),
	})

	if len(books) == 0 {
		return nil
	}

	imported, err := o.store.ImportBooks(books)
	if err != nil {
		return err
	}
	stats.Imported = imported

	if imported > 0 {
		if err := o.store.RebuildFTS(); err != nil {
			return err
		}
		emit(models.Progress{
			Stage:   models.StageImport,
			Message: fmt.Sprintf("Imported %d new books", imported),
		})
	} else {
		emit(models.Progress{
			Stage:   models.StageImport,
			Message: "No new books to import",
		})
	}
	return nil
}

func (o *Orchestrator) runEnrich(stats *models.SyncStats, emit ProgressFunc) error {
	books, err := o.store.BooksWithoutMetadata()
	if err != nil {
		return err
	}
	total := len(books)

	if total == 0 {
		emit(models.Progress{
			Stage:   models.StageEnrich,
			Message: "All books already enriched",
		})
		return nil
	}

	emit(models.Progress{
		Stage:   models.StageEnrich,
		Message: fmt.Sprintf("Enriching %d books...", total),
		Current: intPtr(0),
		Total:   intPtr(total),
	})

	start := time.Now()
	for i, book := range books {
		data, err := o.enricher.Search(book.Title, book.Authors)
		if err != nil {
			return err
		}

		if data != nil {
			if err := o.store.SaveMetadata(book.ASIN, data); err != nil {
				return err
			}
			if data.Description != "" {
				stats.Enriched++
			}
		} else {
			// Tombstone: mark the book as attempted so the next run
			// skips it.
			if err := o.store.SaveMetadata(book.ASIN, &models.Enrichment{Subjects: []string{}}); err != nil {
				return err
			}
		}

		elapsed := time.Since(start)
		emit(models.Progress{
			Stage: models.StageEnrich,
			Message: fmt.Sprintf("%q (%s elapsed, ~%s remaining)",
				truncateTitle(book.Title, 40),
				formatDuration(elapsed),
				formatDuration(estimateETA(i+1, total, elapsed))),
			Current: intPtr(i + 1),
			Total:   intPtr(total),
		})

		if i < total-1 {
			o.sleep(o.enrichDelay)
		}
	}

	if err := o.store.RebuildFTS(); err != nil {
		return err
	}
	emit(models.Progress{
		Stage:   models.StageEnrich,
		Message: fmt.Sprintf("Enriched %d/%d with descriptions", stats.Enriched, total),
		Current: intPtr(total),
		Total:   intPtr(total),
	})
	return nil
}

func (o *Orchestrator) runEmbed(stats *models.SyncStats, emit ProgressFunc) error {
	books, err := o.store.BooksForEmbedding()
	if err != nil {
		return err
	}
	total := len(books)

	if total == 0 {
		emit(models.Progress{
			Stage:   models.StageEmbed,
			Message: "All enriched books already have embeddings",
		})
		return nil
	}

	if !o.backend.Available() {
		emit(models.Progress{
			Stage:   models.StageEmbed,
			Message: "Skipping embeddings (model not downloaded)",
		})
		return nil
	}

	emit(models.Progress{
		Stage:   models.StageEmbed,
		Message: "Loading embedding model...",
	})
	if err := o.backend.Init(); err != nil {
		return err
	}

	emit(models.Progress{
		Stage:   models.StageEmbed,
		Message: fmt.Sprintf("Generating embeddings for %d books...", total),
		Current: intPtr(0),
		Total:   intPtr(total),
	})

	start := time.Now()
	for i, book := range books {
		text := embed.ComposeText(book.Title, book.Authors, book.Description)
		vector, err := o.backend.Embed(text)
		if err != nil {
			return err
		}
		if err := o.store.SaveEmbedding(book.ASIN, vector); err != nil {
			return err
		}
		stats.Embedded++

		elapsed := time.Since(start)
		emit(models.Progress{
			Stage: models.StageEmbed,
			Message: fmt.Sprintf("%q (%s elapsed, ~%s remaining)",
				truncateTitle(book.Title, 40),
				formatDuration(elapsed),
				formatDuration(estimateETA(i+1, total, elapsed))),
			Current: intPtr(i + 1),
			Total:   intPtr(total),
		})
	}

	emit(models.Progress{
		Stage:   models.StageEmbed,
		Message: fmt.Sprintf("Generated %d embeddings", stats.Embedded),
		Current: intPtr(total),
		Total:   intPtr(total),
	})
	return nil
}

// estimateETA extrapolates the remaining time linearly from the observed
// per-item rate. Zero until at least one item has completed.
func estimateETA(current, total int, elapsed time.Duration) time.Duration {
	if current == 0 {
		return 0
	}
	rate := float64(current) / elapsed.Seconds()
	if rate <= 0 {
		return 0
	}
	remaining := float64(total-current) / rate
	return time.Duration(remaining * float64(time.Second))
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm%ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh%dm", secs/3600, (secs%3600)/60)
	}
}

// truncateTitle shortens long titles for progress messages without
// splitting a rune.
func truncateTitle(title string, maxLen int) string {
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}
	return string(runes[:maxLen-3]) + "..."
}

func intPtr(v int) *int { return &v }
