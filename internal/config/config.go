// ABOUTME: Centralized configuration for the stacks catalog
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"time"
)

// Embedding backends.
const (
	BackendLocal  = "local"
	BackendOpenAI = "openai"
)

// Config holds all configuration for the catalog.
type Config struct {
	// Storage settings. Empty paths resolve to the default data
	// directory at open time.
	DBPath   string
	ModelDir string

	// Embedding settings
	EmbeddingBackend string
	OpenAIKey        string
	EmbeddingModel   string

	// Enrichment settings
	EnrichDelay time.Duration
	HTTPTimeout time.Duration

	// Logging settings
	LogPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:           os.Getenv("STACKS_DB_PATH"),
		ModelDir:         os.Getenv("STACKS_MODEL_DIR"),
		EmbeddingBackend: getEnv("STACKS_EMBEDDER", BackendLocal),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:   getEnv("STACKS_OPENAI_MODEL", "text-embedding-3-small"),
		EnrichDelay:      getEnvDuration("STACKS_ENRICH_DELAY", 250*time.Millisecond),
		HTTPTimeout:      getEnvDuration("STACKS_HTTP_TIMEOUT", 10*time.Second),
		LogPath:          os.Getenv("STACKS_LOG_PATH"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.EmbeddingBackend {
	case BackendLocal, BackendOpenAI:
	default:
		return fmt.Errorf("STACKS_EMBEDDER must be %q or %q, got %q", BackendLocal, BackendOpenAI, c.EmbeddingBackend)
	}
	if c.EmbeddingBackend == BackendOpenAI && c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when STACKS_EMBEDDER=%s", BackendOpenAI)
	}
	if c.EnrichDelay < 0 {
		return fmt.Errorf("STACKS_ENRICH_DELAY must be non-negative, got %v", c.EnrichDelay)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
