package cmd

import (
	"context"
	"log/slog"

	"github.com/sanadlabs/sanad/internal/chunk"
	"github.com/sanadlabs/sanad/internal/classify"
	"github.com/sanadlabs/sanad/internal/config"
	"github.com/sanadlabs/sanad/internal/embed"
	"github.com/sanadlabs/sanad/internal/ingest"
	"github.com/sanadlabs/sanad/internal/llm"
	"github.com/sanadlabs/sanad/internal/logging"
	"github.com/sanadlabs/sanad/internal/search"
	"github.com/sanadlabs/sanad/internal/standards"
	"github.com/sanadlabs/sanad/internal/store"
)

// app wires configured components together for one command run.
type app struct {
	cfg        *config.Config
	embedder   embed.Embedder
	global     store.Store
	session    store.Store
	engine     *search.Engine
	classifier *classify.Classifier
	ingester   *ingest.Service
	provider   llm.Provider
}

// newApp builds the component graph from configuration.
func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logging.Setup(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	global, session, err := buildStores(ctx, cfg, embedder)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	var provider llm.Provider
	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		provider, err = llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			slog.Warn("language model unavailable, classification will stop at the embedding tier", "error", err)
			provider = nil
		}
	}

	engine := search.NewEngine(global, session, search.WithRRFConstant(cfg.Search.RRFConstant))
	classifier := classify.NewClassifier(
		embedder,
		standards.NewEmbeddingCache(embedder),
		provider,
		classify.Thresholds{
			High:   cfg.Classifier.HighThreshold,
			Medium: cfg.Classifier.MediumThreshold,
			Low:    cfg.Classifier.LowThreshold,
		},
	)
	ingester := ingest.NewService(global, session,
		ingest.WithChunkOptions(chunk.Options{
			Size:    cfg.Search.ChunkSize,
			Overlap: cfg.Search.ChunkOverlap,
		}),
	)

	return &app{
		cfg:        cfg,
		embedder:   embedder,
		global:     global,
		session:    session,
		engine:     engine,
		classifier: classifier,
		ingester:   ingester,
		provider:   provider,
	}, nil
}

// buildEmbedder constructs the configured embedder behind an LRU cache.
func buildEmbedder(cfg *config.Config) (embed.Embedder, error) {
	var (
		base embed.Embedder
		err  error
	)
	switch cfg.Embeddings.Provider {
	case "static":
		base = embed.NewStaticEmbedder()
	default:
		base, err = embed.NewOpenAIEmbedder(embed.OpenAIConfig{
			APIKey:    cfg.Embeddings.APIKey,
			BaseURL:   cfg.Embeddings.BaseURL,
			Model:     cfg.Embeddings.Model,
			BatchSize: cfg.Embeddings.BatchSize,
			Timeout:   cfg.Embeddings.Timeout,
		})
		if err != nil {
			return nil, err
		}
	}
	return embed.NewCachedEmbedder(base, cfg.Embeddings.CacheSize), nil
}

// buildStores opens the global and session collections.
func buildStores(ctx context.Context, cfg *config.Config, embedder embed.Embedder) (store.Store, store.Store, error) {
	if cfg.Store.Backend == "memory" {
		return store.NewMemoryStore(embedder), store.NewMemoryStore(embedder), nil
	}

	global, err := store.NewQdrantStore(ctx, store.QdrantConfig{
		Addr:       cfg.Store.Addr,
		Collection: cfg.Store.GlobalCollection,
	}, embedder)
	if err != nil {
		return nil, nil, err
	}

	var session store.Store
	if cfg.Store.SessionCollection != "" {
		session, err = store.NewQdrantStore(ctx, store.QdrantConfig{
			Addr:       cfg.Store.Addr,
			Collection: cfg.Store.SessionCollection,
		}, embedder)
		if err != nil {
			_ = global.Close()
			return nil, nil, err
		}
	}
	return global, session, nil
}

// close releases every component.
func (a *app) close() {
	if a.provider != nil {
		_ = a.provider.Close()
	}
	if a.session != nil {
		_ = a.session.Close()
	}
	if a.global != nil {
		_ = a.global.Close()
	}
	_ = a.embedder.Close()
}
