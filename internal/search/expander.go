package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sanadlabs/sanad/internal/store"
)

// DefaultWindow is the neighbor window used when none is given.
const DefaultWindow = 1

// Expand returns the chunks of a source document with indices in
// [index-window, index+window], ordered by position. Missing indices are
// silently absent; a store failure yields an empty slice.
func (e *Engine) Expand(ctx context.Context, source string, index, window int) []store.Chunk {
	if window < 0 {
		window = 0
	}

	lo := index - window
	if lo < 0 {
		lo = 0
	}
	indices := make([]int, 0, 2*window+1)
	for i := lo; i <= index+window; i++ {
		indices = append(indices, i)
	}

	chunks, err := e.global.GetByMetadata(ctx, store.Filter{Source: source, ChunkIndexes: indices})
	if err != nil {
		slog.Warn("context expansion failed", "source", source, "index", index, "error", err)
		return []store.Chunk{}
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ChunkIndex < chunks[j].ChunkIndex })
	return chunks
}
