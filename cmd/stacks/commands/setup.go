// ABOUTME: Shared wiring helpers: config, store, backend, orchestrator
// ABOUTME: Commands call these instead of duplicating setup
package commands

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stacksapp/stacks/internal/config"
	"github.com/stacksapp/stacks/internal/embed"
	"github.com/stacksapp/stacks/internal/enrich"
	"github.com/stacksapp/stacks/internal/logger"
	"github.com/stacksapp/stacks/internal/pipeline"
	"github.com/stacksapp/stacks/internal/storage/sqlite"
)

// openStore opens the catalog database at the configured path, falling
// back to the default data directory.
func openStore(cfg *config.Config) (*sqlite.Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = sqlite.DefaultDBPath()
	}
	store, err := sqlite.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog at %s: %w", path, err)
	}
	return store, nil
}

// resolveModelDir returns where the embedding model lives on disk.
func resolveModelDir(cfg *config.Config) string {
	if cfg.ModelDir != "" {
		return cfg.ModelDir
	}
	return filepath.Join(sqlite.DefaultDataDir(), "model")
}

// newBackend builds the configured embedding backend.
func newBackend(cfg *config.Config) (pipeline.Backend, error) {
	if cfg.EmbeddingBackend == config.BackendOpenAI {
		client, err := embed.NewRemoteEmbedder(cfg.OpenAIKey, cfg.EmbeddingModel)
		if err != nil {
			return nil, fmt.Errorf("creating remote embedder: %w", err)
		}
		return &pipeline.RemoteBackend{Client: client}, nil
	}
	return &pipeline.LocalBackend{
		Engine:   embed.NewEngine(),
		ModelDir: resolveModelDir(cfg),
	}, nil
}

// newOrchestrator wires the full sync pipeline for a command invocation.
func newOrchestrator(cfg *config.Config, store *sqlite.Store) (*pipeline.Orchestrator, pipeline.Backend, error) {
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogPath)
	if err != nil {
		// Logging must never block the pipeline.
		log = zap.NewNop()
	}

	orchestrator := pipeline.NewOrchestrator(store, enrich.NewClient(cfg.HTTPTimeout), backend, cfg.EnrichDelay, log)
	return orchestrator, backend, nil
}
