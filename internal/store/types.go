// Package store defines the vector store contract and its implementations.
//
// A Store instance is bound to a single collection. Documents are stored as
// chunks carrying a stable id, their source document, their position within
// that document, and an optional scope key for session-scoped content. The
// store embeds chunk text internally through an injected Embedder, so callers
// never handle raw vectors.
package store

import (
	"context"
)

// Payload field names shared by all implementations.
const (
	FieldText       = "text"
	FieldSource     = "source"
	FieldChunkIndex = "chunk_index"
	FieldScopeKey   = "scope_key"
)

// Chunk is one stored unit of document text.
type Chunk struct {
	// ID uniquely identifies the chunk within the collection.
	ID string

	// Source is the originating document identifier.
	Source string

	// ChunkIndex is the chunk's position within its source document.
	ChunkIndex int

	// ScopeKey groups session-scoped chunks. Empty for global content.
	ScopeKey string

	// Text is the chunk content.
	Text string
}

// SemanticResult is a chunk returned by a vector similarity query.
type SemanticResult struct {
	Chunk Chunk

	// Distance is the cosine distance to the query (0 = identical).
	Distance float32
}

// LexicalResult is a chunk returned by a literal containment query.
type LexicalResult struct {
	Chunk Chunk
}

// Filter selects chunks by metadata. Zero values leave a field
// unconstrained; ChunkIndexes nil means any index.
type Filter struct {
	Source       string
	ScopeKey     string
	ChunkIndexes []int
}

// Empty reports whether the filter constrains nothing.
func (f Filter) Empty() bool {
	return f.Source == "" && f.ScopeKey == "" && len(f.ChunkIndexes) == 0
}

// Matches reports whether a chunk satisfies the filter.
func (f Filter) Matches(c Chunk) bool {
	if f.Source != "" && c.Source != f.Source {
		return false
	}
	if f.ScopeKey != "" && c.ScopeKey != f.ScopeKey {
		return false
	}
	if len(f.ChunkIndexes) > 0 {
		found := false
		for _, idx := range f.ChunkIndexes {
			if c.ChunkIndex == idx {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Store is the vector store contract for a single collection.
type Store interface {
	// Upsert inserts or overwrites chunks by id, embedding their text.
	Upsert(ctx context.Context, chunks []Chunk) error

	// QuerySemantic returns up to k chunks by embedding similarity,
	// ordered nearest first.
	QuerySemantic(ctx context.Context, text string, k int) ([]SemanticResult, error)

	// QueryExact returns up to limit chunks whose text contains the
	// substring. Results carry no ranking.
	QueryExact(ctx context.Context, substring string, limit int) ([]LexicalResult, error)

	// GetByMetadata returns chunks matching the filter.
	GetByMetadata(ctx context.Context, filter Filter) ([]Chunk, error)

	// DeleteByMetadata removes chunks matching the filter and reports
	// how many were removed. A filter matching nothing is not an error.
	DeleteByMetadata(ctx context.Context, filter Filter) (int, error)

	// Count returns the number of chunks in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
