// Package chunk splits raw document text into bounded, overlapping segments
// along semantic boundaries. Chunks are the unit of indexing and retrieval.
package chunk

import (
	"strings"
)

// Default chunking parameters, matched to the embedding context window.
const (
	// DefaultSize is the maximum chunk length in bytes.
	DefaultSize = 1000

	// DefaultOverlap is the overlap between consecutive hard-sliced chunks.
	DefaultOverlap = 100
)

// separators are tried coarsest to finest. A piece that does not fit at one
// level is re-split with the next; past the last level the text is sliced at
// a fixed stride.
var separators = []string{"\n\n", "\n", ". ", " "}

// Options configures the chunker.
type Options struct {
	// Size is the maximum chunk length. Zero selects DefaultSize.
	Size int

	// Overlap is the overlap used by the fixed-stride fallback.
	// Must be < Size; this is a caller precondition, not validated here.
	Overlap int
}

// DefaultOptions returns the standard chunking parameters.
func DefaultOptions() Options {
	return Options{Size: DefaultSize, Overlap: DefaultOverlap}
}

// Chunk splits text into segments of at most opts.Size bytes, preferring
// paragraph, line, sentence, and word boundaries in that order. Output order
// equals document order and the result is deterministic for a given input,
// which keeps re-ingestion idempotent. Empty input yields an empty slice.
func Chunk(text string, opts Options) []string {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = DefaultOverlap
	}
	if text == "" {
		return []string{}
	}

	// Normalize Windows line endings so "\n\n" boundaries match.
	text = strings.ReplaceAll(text, "\r", "")
	if text == "" {
		return []string{}
	}

	return splitRecursive(text, separators, opts)
}

// splitRecursive greedily packs pieces produced by the current separator into
// chunks of at most opts.Size bytes. Oversized pieces descend to the next
// separator; when none remain, hardSlice takes over.
func splitRecursive(text string, seps []string, opts Options) []string {
	if len(seps) == 0 {
		return hardSlice(text, opts)
	}

	sep := seps[0]
	pieces := strings.Split(text, sep)

	var chunks []string
	var buf strings.Builder

	for _, piece := range pieces {
		if buf.Len()+len(piece)+len(sep) <= opts.Size {
			buf.WriteString(piece)
			buf.WriteString(sep)
			continue
		}

		if buf.Len() > 0 {
			if flushed := strings.TrimSpace(buf.String()); flushed != "" {
				chunks = append(chunks, flushed)
			}
			buf.Reset()
		}

		if len(piece) > opts.Size {
			chunks = append(chunks, splitRecursive(piece, seps[1:], opts)...)
		} else {
			buf.WriteString(piece)
			buf.WriteString(sep)
		}
	}

	if buf.Len() > 0 {
		if flushed := strings.TrimSpace(buf.String()); flushed != "" {
			chunks = append(chunks, flushed)
		}
	}

	if chunks == nil {
		return []string{}
	}
	return chunks
}

// hardSlice cuts text at fixed width opts.Size, advancing opts.Size-
// opts.Overlap per step so adjacent slices share opts.Overlap bytes.
func hardSlice(text string, opts Options) []string {
	stride := opts.Size - opts.Overlap
	if stride <= 0 {
		stride = opts.Size
	}

	var chunks []string
	for start := 0; start < len(text); start += stride {
		end := start + opts.Size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
