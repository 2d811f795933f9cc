// Package ingest turns documents into chunks and writes them to the
// vector store collections.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad/internal/chunk"
	serrors "github.com/sanadlabs/sanad/internal/errors"
	"github.com/sanadlabs/sanad/internal/store"
)

// DefaultBatchSize is the number of chunks written per upsert.
const DefaultBatchSize = 8

// Service ingests documents into a global collection and scoped content
// into a session collection.
type Service struct {
	global    store.Store
	session   store.Store
	chunkOpts chunk.Options
	batchSize int
}

// Option configures a Service.
type Option func(*Service)

// WithChunkOptions overrides the chunker settings.
func WithChunkOptions(opts chunk.Options) Option {
	return func(s *Service) { s.chunkOpts = opts }
}

// WithBatchSize overrides the upsert batch size.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewService creates an ingestion service. session may be nil when
// scoped ingestion is unused.
func NewService(global, session store.Store, opts ...Option) *Service {
	s := &Service{
		global:    global,
		session:   session,
		chunkOpts: chunk.Options{Size: chunk.DefaultSize, Overlap: chunk.DefaultOverlap},
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats reports what one ingestion wrote.
type Stats struct {
	Chunks  int
	Written int
	Skipped int
}

// IngestDocument chunks a document and upserts it into the global
// collection under deterministic ids, so re-ingesting the same source
// overwrites rather than duplicates. Failed batches are skipped and
// counted, not fatal.
func (s *Service) IngestDocument(ctx context.Context, source, text string) (Stats, error) {
	if strings.TrimSpace(source) == "" {
		return Stats{}, serrors.InputError("source is required", nil)
	}

	pieces := chunk.Chunk(text, s.chunkOpts)
	if len(pieces) == 0 {
		return Stats{}, serrors.New(serrors.ErrCodeEmptyDocument, "document produced no chunks", nil)
	}

	chunks := make([]store.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = store.Chunk{
			ID:         fmt.Sprintf("%s_chunk_%d", source, i),
			Source:     source,
			ChunkIndex: i,
			Text:       piece,
		}
	}

	stats := s.writeBatches(ctx, s.global, chunks, source)
	slog.Info("ingested document",
		"source", source,
		"chunks", stats.Chunks,
		"written", stats.Written,
		"skipped", stats.Skipped)
	return stats, nil
}

// IngestScoped chunks content into the session collection under a scope
// key. Ids carry a random fragment, so repeated ingestion appends.
func (s *Service) IngestScoped(ctx context.Context, scopeKey, source, text string) (Stats, error) {
	if s.session == nil {
		return Stats{}, serrors.New(serrors.ErrCodeInternal, "no session collection configured", nil)
	}
	if strings.TrimSpace(scopeKey) == "" {
		return Stats{}, serrors.InputError("scope key is required", nil)
	}

	pieces := chunk.Chunk(text, s.chunkOpts)
	if len(pieces) == 0 {
		return Stats{}, serrors.New(serrors.ErrCodeEmptyDocument, "content produced no chunks", nil)
	}

	fragment := uuid.NewString()[:8]
	chunks := make([]store.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = store.Chunk{
			ID:         fmt.Sprintf("sess_%s_%d_%s", scopeKey, i, fragment),
			Source:     source,
			ChunkIndex: i,
			ScopeKey:   scopeKey,
			Text:       piece,
		}
	}

	stats := s.writeBatches(ctx, s.session, chunks, source)
	slog.Info("ingested scoped content",
		"scope_key", scopeKey,
		"source", source,
		"chunks", stats.Chunks,
		"written", stats.Written,
		"skipped", stats.Skipped)
	return stats, nil
}

// writeBatches upserts chunks in fixed-size batches, skipping batches
// that fail.
func (s *Service) writeBatches(ctx context.Context, dst store.Store, chunks []store.Chunk, source string) Stats {
	stats := Stats{Chunks: len(chunks)}
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		if err := dst.Upsert(ctx, batch); err != nil {
			slog.Error("failed to ingest batch, skipping",
				"source", source,
				"from", start,
				"to", end,
				"error", err)
			stats.Skipped += len(batch)
			continue
		}
		stats.Written += len(batch)
	}
	return stats
}

// DeleteSource removes every global chunk of a source document.
func (s *Service) DeleteSource(ctx context.Context, source string) (int, error) {
	if strings.TrimSpace(source) == "" {
		return 0, serrors.InputError("source is required", nil)
	}
	removed, err := s.global.DeleteByMetadata(ctx, store.Filter{Source: source})
	if err != nil {
		return 0, err
	}
	slog.Info("deleted source", "source", source, "removed", removed)
	return removed, nil
}

// DeleteScope removes every session chunk under a scope key.
func (s *Service) DeleteScope(ctx context.Context, scopeKey string) (int, error) {
	if s.session == nil {
		return 0, nil
	}
	if strings.TrimSpace(scopeKey) == "" {
		return 0, serrors.InputError("scope key is required", nil)
	}
	removed, err := s.session.DeleteByMetadata(ctx, store.Filter{ScopeKey: scopeKey})
	if err != nil {
		return 0, err
	}
	slog.Info("deleted scope", "scope_key", scopeKey, "removed", removed)
	return removed, nil
}
