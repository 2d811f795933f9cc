package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanadlabs/sanad/internal/embed"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	return NewMemoryStore(embed.NewStaticEmbedder())
}

func seedChunks(t *testing.T, s *MemoryStore, chunks []Chunk) {
	t.Helper()
	require.NoError(t, s.Upsert(context.Background(), chunks))
}

func TestMemoryStore_UpsertIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunk := Chunk{ID: "doc_chunk_0", Source: "doc", ChunkIndex: 0, Text: "access control policy"}
	seedChunks(t, s, []Chunk{chunk})
	seedChunks(t, s, []Chunk{chunk})

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_UpsertOverwritesByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedChunks(t, s, []Chunk{{ID: "doc_chunk_0", Source: "doc", Text: "old text"}})
	seedChunks(t, s, []Chunk{{ID: "doc_chunk_0", Source: "doc", Text: "new text"}})

	got, err := s.GetByMetadata(ctx, Filter{Source: "doc"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new text", got[0].Text)
}

func TestMemoryStore_QuerySemanticOrdersByDistance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedChunks(t, s, []Chunk{
		{ID: "a", Source: "doc", ChunkIndex: 0, Text: "cybersecurity governance framework for agencies"},
		{ID: "b", Source: "doc", ChunkIndex: 1, Text: "completely unrelated cooking recipe with tomatoes"},
	})

	results, err := s.QuerySemantic(ctx, "cybersecurity governance framework", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

func TestMemoryStore_QuerySemanticLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedChunks(t, s, []Chunk{
		{ID: "a", Text: "first"},
		{ID: "b", Text: "second"},
		{ID: "c", Text: "third"},
	})

	results, err := s.QuerySemantic(ctx, "first", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = s.QuerySemantic(ctx, "first", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStore_QueryExactContainment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedChunks(t, s, []Chunk{
		{ID: "a", Text: "the policy requires multi-factor authentication"},
		{ID: "b", Text: "backups run nightly"},
		{ID: "c", Text: "Multi-Factor codes rotate"},
	})

	// Containment is case-sensitive.
	results, err := s.QueryExact(ctx, "multi-factor", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Chunk.ID)

	results, err = s.QueryExact(ctx, "nowhere", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStore_QueryExactLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedChunks(t, s, []Chunk{
		{ID: "a", Text: "shared token"},
		{ID: "b", Text: "shared token"},
		{ID: "c", Text: "shared token"},
	})

	results, err := s.QueryExact(ctx, "shared", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemoryStore_GetByMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedChunks(t, s, []Chunk{
		{ID: "a0", Source: "alpha", ChunkIndex: 0, Text: "x"},
		{ID: "a1", Source: "alpha", ChunkIndex: 1, Text: "y"},
		{ID: "b0", Source: "beta", ChunkIndex: 0, Text: "z"},
		{ID: "s0", Source: "gamma", ChunkIndex: 0, ScopeKey: "sess1", Text: "w"},
	})

	bySource, err := s.GetByMetadata(ctx, Filter{Source: "alpha"})
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	byIndex, err := s.GetByMetadata(ctx, Filter{Source: "alpha", ChunkIndexes: []int{1, 5}})
	require.NoError(t, err)
	require.Len(t, byIndex, 1)
	assert.Equal(t, "a1", byIndex[0].ID)

	byScope, err := s.GetByMetadata(ctx, Filter{ScopeKey: "sess1"})
	require.NoError(t, err)
	require.Len(t, byScope, 1)
	assert.Equal(t, "s0", byScope[0].ID)

	all, err := s.GetByMetadata(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryStore_DeleteByMetadata(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedChunks(t, s, []Chunk{
		{ID: "a0", Source: "alpha", Text: "x"},
		{ID: "a1", Source: "alpha", Text: "y"},
		{ID: "b0", Source: "beta", Text: "z"},
	})

	removed, err := s.DeleteByMetadata(ctx, Filter{Source: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A filter matching nothing is not an error.
	removed, err = s.DeleteByMetadata(ctx, Filter{Source: "missing"})
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryStore_ClosedStoreRejectsCalls(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Close())

	err := s.Upsert(ctx, []Chunk{{ID: "a", Text: "x"}})
	assert.Error(t, err)

	_, err = s.Count(ctx)
	assert.Error(t, err)
}

func TestFilterMatches(t *testing.T) {
	chunk := Chunk{ID: "a", Source: "doc", ChunkIndex: 3, ScopeKey: "s1"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty matches all", Filter{}, true},
		{"source match", Filter{Source: "doc"}, true},
		{"source mismatch", Filter{Source: "other"}, false},
		{"scope match", Filter{ScopeKey: "s1"}, true},
		{"scope mismatch", Filter{ScopeKey: "s2"}, false},
		{"index in set", Filter{ChunkIndexes: []int{2, 3}}, true},
		{"index not in set", Filter{ChunkIndexes: []int{0, 1}}, false},
		{"combined", Filter{Source: "doc", ScopeKey: "s1", ChunkIndexes: []int{3}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(chunk))
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)

	// Zero-norm vectors yield 0, never NaN.
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
