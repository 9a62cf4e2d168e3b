// ABOUTME: Remote embedding backend via the OpenAI embeddings API
// ABOUTME: Requests 768-dim vectors so remote and local backends share a schema
package embed

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/stacksapp/stacks/internal/util"
)

// DefaultRemoteModel supports requesting reduced output dimensions, which
// keeps remote vectors compatible with the 768-wide vector table.
const DefaultRemoteModel = openai.SmallEmbedding3

// RemoteEmbedder generates embeddings through the OpenAI API. It satisfies
// the same Embedder contract as the local Engine and is selected by
// configuration when no local model is on disk.
type RemoteEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
}

// NewRemoteEmbedder creates a remote embedder with the given API key. An
// empty model selects DefaultRemoteModel; any configured model must accept
// a Dimensions request parameter.
func NewRemoteEmbedder(apiKey, model string) (*RemoteEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	embeddingModel := openai.EmbeddingModel(model)
	if model == "" {
		embeddingModel = DefaultRemoteModel
	}
	return &RemoteEmbedder{
		client:     openai.NewClient(apiKey),
		model:      embeddingModel,
		maxRetries: 3,
		retryDelay: 2 * time.Second,
	}, nil
}

// Embed generates a 768-dimensional embedding with retry on transient
// failures.
func (r *RemoteEmbedder) Embed(text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(r.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		resp, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input:      []string{text},
			Model:      r.model,
			Dimensions: Dimension,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		vector := resp.Data[0].Embedding
		if len(vector) != Dimension {
			return nil, fmt.Errorf("remote embedding dimension = %d, want %d", len(vector), Dimension)
		}
		return vector, nil
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", r.maxRetries+1, lastErr)
}
