package store

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/sanadlabs/sanad/internal/embed"
	serrors "github.com/sanadlabs/sanad/internal/errors"
)

// MemoryStore is an in-memory Store backed by a map with brute-force
// similarity search. It is the reference implementation for the contract
// and the backend used in tests and offline mode.
type MemoryStore struct {
	mu       sync.RWMutex
	embedder embed.Embedder
	chunks   map[string]Chunk
	vectors  map[string][]float32
	dims     int
	closed   bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store that embeds chunk text
// with the given embedder.
func NewMemoryStore(embedder embed.Embedder) *MemoryStore {
	return &MemoryStore{
		embedder: embedder,
		chunks:   make(map[string]Chunk),
		vectors:  make(map[string][]float32),
		dims:     embedder.Dimensions(),
	}
}

// Upsert inserts or overwrites chunks by id.
func (s *MemoryStore) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeStoreWrite, err)
	}
	if len(vecs) != len(chunks) {
		return serrors.New(serrors.ErrCodeStoreWrite, "embedding count mismatch", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return serrors.New(serrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}
	for i, c := range chunks {
		if len(vecs[i]) != s.dims {
			slog.Warn("embedding dimension mismatch",
				"chunk_id", c.ID,
				"got", len(vecs[i]),
				"want", s.dims)
		}
		s.chunks[c.ID] = c
		s.vectors[c.ID] = vecs[i]
	}
	return nil
}

// QuerySemantic returns up to k chunks ordered by cosine distance to the
// query text, nearest first.
func (s *MemoryStore) QuerySemantic(ctx context.Context, text string, k int) ([]SemanticResult, error) {
	if k <= 0 {
		return []SemanticResult{}, nil
	}

	qvec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeStoreQuery, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, serrors.New(serrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	results := make([]SemanticResult, 0, len(s.chunks))
	for id, c := range s.chunks {
		sim := cosineSimilarity(qvec, s.vectors[id])
		results = append(results, SemanticResult{Chunk: c, Distance: 1 - sim})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// QueryExact returns up to limit chunks whose text contains the substring.
func (s *MemoryStore) QueryExact(ctx context.Context, substring string, limit int) ([]LexicalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, serrors.New(serrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	ids := make([]string, 0, len(s.chunks))
	for id := range s.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]LexicalResult, 0)
	for _, id := range ids {
		c := s.chunks[id]
		if strings.Contains(c.Text, substring) {
			results = append(results, LexicalResult{Chunk: c})
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// GetByMetadata returns chunks matching the filter.
func (s *MemoryStore) GetByMetadata(ctx context.Context, filter Filter) ([]Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, serrors.New(serrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	results := make([]Chunk, 0)
	for _, c := range s.chunks {
		if filter.Matches(c) {
			results = append(results, c)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

// DeleteByMetadata removes chunks matching the filter.
func (s *MemoryStore) DeleteByMetadata(ctx context.Context, filter Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, serrors.New(serrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	removed := 0
	for id, c := range s.chunks {
		if filter.Matches(c) {
			delete(s.chunks, id)
			delete(s.vectors, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored chunks.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, serrors.New(serrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}
	return len(s.chunks), nil
}

// Close releases resources. Further calls fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.chunks = nil
	s.vectors = nil
	return nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// A zero-norm input yields 0.
func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
