// Package config loads and validates the service configuration from
// YAML with SANAD_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	serrors "github.com/sanadlabs/sanad/internal/errors"
)

// Default collection names.
const (
	DefaultGlobalCollection  = "dga_qiyas_controls"
	DefaultSessionCollection = "session_knowledge_base"
)

// Config is the complete service configuration.
type Config struct {
	Search     SearchConfig     `yaml:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	LLM        LLMConfig        `yaml:"llm"`
	Store      StoreConfig      `yaml:"store"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SearchConfig tunes hybrid retrieval.
type SearchConfig struct {
	// RRFConstant is the rank fusion smoothing parameter (k).
	RRFConstant int `yaml:"rrf_constant"`

	// TopK is the default number of fused results.
	TopK int `yaml:"top_k"`

	// ChunkSize and ChunkOverlap control ingestion chunking.
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// ContextWindow is the neighbor window for context expansion.
	ContextWindow int `yaml:"context_window"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "openai" or "static" (offline).
	Provider string `yaml:"provider"`

	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	BatchSize int           `yaml:"batch_size"`
	CacheSize int           `yaml:"cache_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LLMConfig configures the completion provider used for classification.
type LLMConfig struct {
	// Enabled turns the LLM classification tier on.
	Enabled bool `yaml:"enabled"`

	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig configures the vector store backend.
type StoreConfig struct {
	// Backend selects the store: "qdrant" or "memory".
	Backend string `yaml:"backend"`

	// Addr is the Qdrant gRPC endpoint.
	Addr string `yaml:"addr"`

	GlobalCollection  string `yaml:"global_collection"`
	SessionCollection string `yaml:"session_collection"`
}

// ClassifierConfig tunes the classification cascade.
type ClassifierConfig struct {
	HighThreshold   float64 `yaml:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold"`
	LowThreshold    float64 `yaml:"low_threshold"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			RRFConstant:   60,
			TopK:          5,
			ChunkSize:     1000,
			ChunkOverlap:  100,
			ContextWindow: 1,
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "openai",
			BatchSize: 32,
			CacheSize: 1000,
			Timeout:   60 * time.Second,
		},
		LLM: LLMConfig{
			Enabled: true,
			Timeout: 120 * time.Second,
		},
		Store: StoreConfig{
			Backend:           "qdrant",
			Addr:              "localhost:6334",
			GlobalCollection:  DefaultGlobalCollection,
			SessionCollection: DefaultSessionCollection,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the configuration file at path, falling back to defaults
// when path is empty or the file does not exist. Environment overrides
// are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, serrors.New(serrors.ErrCodeConfigNotFound,
					fmt.Sprintf("cannot read config file %s", path), err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, serrors.ConfigError(fmt.Sprintf("invalid config file %s", path), err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies SANAD_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SANAD_EMBEDDINGS_API_KEY"); v != "" {
		c.Embeddings.APIKey = v
	}
	if v := os.Getenv("SANAD_EMBEDDINGS_BASE_URL"); v != "" {
		c.Embeddings.BaseURL = v
	}
	if v := os.Getenv("SANAD_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("SANAD_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("SANAD_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("SANAD_LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("SANAD_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("SANAD_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SANAD_QDRANT_ADDR"); v != "" {
		c.Store.Addr = v
	}
	if v := os.Getenv("SANAD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SANAD_RRF_CONSTANT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.RRFConstant = n
		}
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Search.ChunkSize <= 0 {
		return serrors.ConfigError("search.chunk_size must be positive", nil)
	}
	if c.Search.ChunkOverlap < 0 {
		return serrors.ConfigError("search.chunk_overlap must not be negative", nil)
	}
	if c.Search.ChunkOverlap >= c.Search.ChunkSize {
		return serrors.ConfigError("search.chunk_overlap must be smaller than search.chunk_size", nil)
	}
	if c.Search.RRFConstant <= 0 {
		return serrors.ConfigError("search.rrf_constant must be positive", nil)
	}
	if c.Search.TopK <= 0 {
		return serrors.ConfigError("search.top_k must be positive", nil)
	}

	switch c.Embeddings.Provider {
	case "openai", "static":
	default:
		return serrors.ConfigError(
			fmt.Sprintf("embeddings.provider %q is not supported (openai, static)", c.Embeddings.Provider), nil)
	}

	switch c.Store.Backend {
	case "qdrant", "memory":
	default:
		return serrors.ConfigError(
			fmt.Sprintf("store.backend %q is not supported (qdrant, memory)", c.Store.Backend), nil)
	}
	if c.Store.GlobalCollection == "" {
		return serrors.ConfigError("store.global_collection is required", nil)
	}
	return nil
}
