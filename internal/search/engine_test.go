package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanadlabs/sanad/internal/embed"
	"github.com/sanadlabs/sanad/internal/store"
)

// failingStore wraps a store and fails selected operations.
type failingStore struct {
	store.Store
	failSemantic bool
	failExact    bool
	failGet      bool
}

func (f *failingStore) QuerySemantic(ctx context.Context, text string, k int) ([]store.SemanticResult, error) {
	if f.failSemantic {
		return nil, errors.New("semantic backend down")
	}
	return f.Store.QuerySemantic(ctx, text, k)
}

func (f *failingStore) QueryExact(ctx context.Context, substring string, limit int) ([]store.LexicalResult, error) {
	if f.failExact {
		return nil, errors.New("lexical backend down")
	}
	return f.Store.QueryExact(ctx, substring, limit)
}

func (f *failingStore) GetByMetadata(ctx context.Context, filter store.Filter) ([]store.Chunk, error) {
	if f.failGet {
		return nil, errors.New("metadata backend down")
	}
	return f.Store.GetByMetadata(ctx, filter)
}

func seededStore(t *testing.T, chunks []store.Chunk) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore(embed.NewStaticEmbedder())
	require.NoError(t, s.Upsert(context.Background(), chunks))
	return s
}

func TestSearchHybrid_MergesBothLegs(t *testing.T) {
	s := seededStore(t, []store.Chunk{
		{ID: "a", Source: "doc", ChunkIndex: 0, Text: "encryption key rotation schedule"},
		{ID: "b", Source: "doc", ChunkIndex: 1, Text: "password policy and encryption rules"},
		{ID: "c", Source: "doc", ChunkIndex: 2, Text: "visitor parking guidelines"},
	})
	e := NewEngine(s, nil)

	result, err := e.SearchHybrid(context.Background(), "encryption", "encryption", 3)
	require.NoError(t, err)
	assert.False(t, result.SemanticFailed)
	assert.False(t, result.LexicalFailed)
	require.NotEmpty(t, result.Results)

	// Chunks containing the literal query appear in the lexical leg.
	found := map[string]FusedResult{}
	for _, r := range result.Results {
		found[r.Chunk.ID] = r
	}
	require.Contains(t, found, "a")
	assert.True(t, found["a"].InLexical)
}

func TestSearchHybrid_LegsUseTheirOwnQueries(t *testing.T) {
	s := seededStore(t, []store.Chunk{
		{ID: "a", Source: "doc", ChunkIndex: 0, Text: "access control procedures for contractors"},
		{ID: "b", Source: "doc", ChunkIndex: 1, Text: "clause 7.3 applies to third parties"},
	})
	e := NewEngine(s, nil)

	result, err := e.SearchHybrid(context.Background(), "access control", "clause 7.3", 5)
	require.NoError(t, err)

	found := map[string]FusedResult{}
	for _, r := range result.Results {
		found[r.Chunk.ID] = r
	}
	require.Contains(t, found, "b")
	assert.True(t, found["b"].InLexical, "lexical leg should match its own phrase")
	require.Contains(t, found, "a")
	assert.False(t, found["a"].InLexical, "chunk without the literal phrase stays semantic-only")
}

func TestSearchHybrid_TruncatesToK(t *testing.T) {
	s := seededStore(t, []store.Chunk{
		{ID: "a", Text: "alpha topic"},
		{ID: "b", Text: "beta topic"},
		{ID: "c", Text: "gamma topic"},
		{ID: "d", Text: "delta topic"},
	})
	e := NewEngine(s, nil)

	result, err := e.SearchHybrid(context.Background(), "topic", "topic", 2)
	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
}

func TestSearchHybrid_SemanticLegFailureDegrades(t *testing.T) {
	s := seededStore(t, []store.Chunk{
		{ID: "a", Text: "incident response runbook"},
	})
	e := NewEngine(&failingStore{Store: s, failSemantic: true}, nil)

	result, err := e.SearchHybrid(context.Background(), "incident", "incident", 5)
	require.NoError(t, err)
	assert.True(t, result.SemanticFailed)
	assert.False(t, result.LexicalFailed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "a", result.Results[0].Chunk.ID)
	assert.True(t, result.Results[0].InLexical)
	assert.False(t, result.Results[0].InSemantic)
}

func TestSearchHybrid_LexicalLegFailureDegrades(t *testing.T) {
	s := seededStore(t, []store.Chunk{
		{ID: "a", Text: "incident response runbook"},
	})
	e := NewEngine(&failingStore{Store: s, failExact: true}, nil)

	result, err := e.SearchHybrid(context.Background(), "incident", "incident", 5)
	require.NoError(t, err)
	assert.True(t, result.LexicalFailed)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].InSemantic)
}

func TestSearchHybrid_BothLegsFailReturnsEmptyWithoutError(t *testing.T) {
	s := seededStore(t, []store.Chunk{{ID: "a", Text: "content"}})
	e := NewEngine(&failingStore{Store: s, failSemantic: true, failExact: true}, nil)

	result, err := e.SearchHybrid(context.Background(), "anything", "anything", 5)
	require.NoError(t, err)
	assert.True(t, result.SemanticFailed)
	assert.True(t, result.LexicalFailed)
	assert.Empty(t, result.Results)
}

func TestSearchScoped_FiltersByScopeKey(t *testing.T) {
	session := seededStore(t, []store.Chunk{
		{ID: "s1_0", ScopeKey: "sess1", Text: "budget discussion for alpha project"},
		{ID: "s2_0", ScopeKey: "sess2", Text: "budget discussion for beta project"},
		{ID: "s1_1", ScopeKey: "sess1", Text: "unrelated meeting notes"},
	})
	e := NewEngine(seededStore(t, nil), session)

	results, err := e.SearchScoped(context.Background(), "budget", "sess1", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "sess1", r.Chunk.ScopeKey)
	}
}

func TestSearchScoped_NilSessionStore(t *testing.T) {
	e := NewEngine(seededStore(t, nil), nil)

	results, err := e.SearchScoped(context.Background(), "anything", "sess1", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
