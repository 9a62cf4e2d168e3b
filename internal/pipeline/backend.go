// ABOUTME: Embedding backend adapters for the sync pipeline
// ABOUTME: Local ONNX inference or the remote API behind one interface
package pipeline

import "github.com/stacksapp/stacks/internal/embed"

// Backend generates embedding vectors for the pipeline. Available reports
// whether the backend can run at all; Init prepares it and is idempotent.
type Backend interface {
	Available() bool
	Init() error
	Embed(text string) ([]float32, error)
}

// LocalBackend runs the on-disk ONNX model.
type LocalBackend struct {
	Engine   *embed.Engine
	ModelDir string
}

func (b *LocalBackend) Available() bool {
	return embed.ModelAvailable(b.ModelDir)
}

func (b *LocalBackend) Init() error {
	return b.Engine.Init(b.ModelDir)
}

func (b *LocalBackend) Embed(text string) ([]float32, error) {
	return b.Engine.Embed(text)
}

// RemoteBackend embeds through the hosted API. It needs no local model, so
// it is always available.
type RemoteBackend struct {
	Client *embed.RemoteEmbedder
}

func (b *RemoteBackend) Available() bool { return true }

func (b *RemoteBackend) Init() error { return nil }

func (b *RemoteBackend) Embed(text string) ([]float32, error) {
	return b.Client.Embed(text)
}
