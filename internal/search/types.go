// Package search implements two-signal hybrid retrieval with reciprocal
// rank fusion and context-window expansion.
package search

import "github.com/sanadlabs/sanad/internal/store"

// FusedResult is a chunk with its fused relevance score.
type FusedResult struct {
	Chunk store.Chunk

	// Score is the reciprocal rank fusion score, higher is better.
	Score float64

	// InSemantic reports whether the semantic leg returned this chunk.
	InSemantic bool

	// InLexical reports whether the lexical leg returned this chunk.
	InLexical bool
}

// Result is the outcome of a hybrid search.
type Result struct {
	Results []FusedResult

	// SemanticFailed and LexicalFailed record degraded legs.
	SemanticFailed bool
	LexicalFailed  bool
}
