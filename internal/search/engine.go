package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sanadlabs/sanad/internal/store"
)

// Default limits for the engine.
const (
	// DefaultTopK is the number of fused results returned.
	DefaultTopK = 5

	// DefaultExactLimit bounds an unbounded lexical query.
	DefaultExactLimit = 2000
)

// Engine runs hybrid retrieval over a global collection and scoped
// retrieval over a session collection.
type Engine struct {
	global  store.Store
	session store.Store
	rrfK    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRRFConstant overrides the rank fusion constant.
func WithRRFConstant(k int) Option {
	return func(e *Engine) { e.rrfK = k }
}

// NewEngine creates a search engine. session may be nil when scoped
// search is unused.
func NewEngine(global, session store.Store, opts ...Option) *Engine {
	e := &Engine{
		global:  global,
		session: session,
		rrfK:    DefaultRRFConstant,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchHybrid runs the semantic and lexical legs concurrently and fuses
// their rankings. The two legs may use different query text: the semantic
// leg gets the full natural-language query, the lexical leg a literal
// phrase to match. A failed leg degrades to the surviving one; when both
// legs fail the result is empty and the caller sees no error.
func (e *Engine) SearchHybrid(ctx context.Context, semanticQuery, lexicalQuery string, k int) (*Result, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	var (
		semantic []store.SemanticResult
		lexical  []store.LexicalResult
		semErr   error
		lexErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Over-fetch so fusion has candidates beyond the final cut.
		semantic, semErr = e.global.QuerySemantic(gctx, semanticQuery, 2*k)
		return nil
	})
	g.Go(func() error {
		lexical, lexErr = e.global.QueryExact(gctx, lexicalQuery, DefaultExactLimit)
		return nil
	})
	_ = g.Wait()

	result := &Result{Results: []FusedResult{}}
	if semErr != nil {
		result.SemanticFailed = true
		slog.Warn("semantic leg failed, degrading to lexical only", "error", semErr)
	}
	if lexErr != nil {
		result.LexicalFailed = true
		slog.Warn("lexical leg failed, degrading to semantic only", "error", lexErr)
	}
	if semErr != nil && lexErr != nil {
		slog.Error("both search legs failed", "semantic_error", semErr, "lexical_error", lexErr)
		return result, nil
	}

	semChunks := make([]store.Chunk, 0, len(semantic))
	for _, r := range semantic {
		semChunks = append(semChunks, r.Chunk)
	}
	lexChunks := make([]store.Chunk, 0, len(lexical))
	for _, r := range lexical {
		lexChunks = append(lexChunks, r.Chunk)
	}

	fused := fuseRRF(semChunks, lexChunks, e.rrfK)
	if len(fused) > k {
		fused = fused[:k]
	}
	result.Results = fused
	return result, nil
}

// SearchScoped runs a semantic query over the session collection
// restricted to one scope key.
func (e *Engine) SearchScoped(ctx context.Context, query, scopeKey string, k int) ([]store.SemanticResult, error) {
	if e.session == nil {
		return []store.SemanticResult{}, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	// The store contract has no filtered semantic query, so over-fetch
	// and filter by scope here.
	total, err := e.session.Count(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := e.session.QuerySemantic(ctx, query, total)
	if err != nil {
		return nil, err
	}

	scoped := make([]store.SemanticResult, 0, k)
	for _, r := range candidates {
		if r.Chunk.ScopeKey != scopeKey {
			continue
		}
		scoped = append(scoped, r)
		if len(scoped) >= k {
			break
		}
	}
	return scoped, nil
}
