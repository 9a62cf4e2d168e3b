// ABOUTME: Background embedder for books left without vectors
// ABOUTME: Runs opportunistically; every failure is logged and skipped
package pipeline

import (
	"go.uber.org/zap"

	"github.com/stacksapp/stacks/internal/embed"
)

// AutoEmbed embeds any books that have metadata but no vector yet. It is
// meant to run in a goroutine at startup and returns the number of vectors
// written. A concurrent explicit sync is safe: the store and the engine
// serialize access themselves, and writing the same vector twice is
// idempotent.
func (o *Orchestrator) AutoEmbed() int {
	if !o.backend.Available() {
		o.log.Debug("model not available, skipping auto-embedding")
		return 0
	}

	books, err := o.store.BooksForEmbedding()
	if err != nil {
		o.log.Error("failed to get books for embedding", zap.Error(err))
		return 0
	}
	if len(books) == 0 {
		o.log.Debug("no books need embedding")
		return 0
	}

	o.log.Info("auto-embedding books in background", zap.Int("count", len(books)))

	if err := o.backend.Init(); err != nil {
		o.log.Error("failed to init embedder", zap.Error(err))
		return 0
	}

	embedded := 0
	for _, book := range books {
		text := embed.ComposeText(book.Title, book.Authors, book.Description)
		vector, err := o.backend.Embed(text)
		if err != nil {
			o.log.Error("failed to embed book", zap.String("asin", book.ASIN), zap.Error(err))
			continue
		}
		if err := o.store.SaveEmbedding(book.ASIN, vector); err != nil {
			o.log.Error("failed to save embedding", zap.String("asin", book.ASIN), zap.Error(err))
			continue
		}
		embedded++
	}

	o.log.Info("auto-embedding finished", zap.Int("embedded", embedded))
	return embedded
}
