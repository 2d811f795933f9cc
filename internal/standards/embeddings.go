package standards

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sanadlabs/sanad/internal/embed"
	serrors "github.com/sanadlabs/sanad/internal/errors"
)

// EmbeddingCache lazily computes and caches the embedding of every
// standard description. A failed computation is retried on the next call
// rather than latched.
type EmbeddingCache struct {
	mu       sync.Mutex
	embedder embed.Embedder
	cached   map[string][]float32
	done     bool
}

// NewEmbeddingCache creates a cache over the given embedder.
func NewEmbeddingCache(embedder embed.Embedder) *EmbeddingCache {
	return &EmbeddingCache{embedder: embedder}
}

// Get returns the cached standard embeddings, computing them on first use.
// Concurrent callers block until the single computation finishes.
func (c *EmbeddingCache) Get(ctx context.Context) (map[string][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done {
		return c.cached, nil
	}

	embeddings, err := c.compute(ctx)
	if err != nil {
		return nil, err
	}
	c.cached = embeddings
	c.done = true
	return c.cached, nil
}

// compute embeds every description, batch first, per-item on batch failure.
func (c *EmbeddingCache) compute(ctx context.Context) (map[string][]float32, error) {
	ids := IDs()
	texts := make([]string, len(ids))
	for i, id := range ids {
		texts[i] = Descriptions[id]
	}

	embeddings := make(map[string][]float32, len(ids))

	vecs, err := c.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(vecs) == len(ids) {
		for i, id := range ids {
			embeddings[id] = vecs[i]
		}
		slog.Info("cached standard embeddings", "count", len(embeddings))
		return embeddings, nil
	}

	slog.Warn("batch embedding of standards failed, falling back to per-item", "error", err)
	for _, id := range ids {
		vec, itemErr := c.embedder.Embed(ctx, Descriptions[id])
		if itemErr != nil {
			slog.Error("failed to embed standard description", "standard_id", id, "error", itemErr)
			continue
		}
		embeddings[id] = vec
	}
	if len(embeddings) == 0 {
		return nil, serrors.New(serrors.ErrCodeEmbeddingFailed, "could not embed any standard description", err)
	}

	slog.Info("cached standard embeddings", "count", len(embeddings))
	return embeddings, nil
}
