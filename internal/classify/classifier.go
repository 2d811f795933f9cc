package classify

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sanadlabs/sanad/internal/embed"
	"github.com/sanadlabs/sanad/internal/llm"
	"github.com/sanadlabs/sanad/internal/standards"
)

// Thresholds tune the embedding tier. Zero values fall back to the
// defaults below.
type Thresholds struct {
	High         float64
	HighMargin   float64
	Medium       float64
	MediumMargin float64
	Low          float64
}

// Default thresholds for the embedding tier. A level is reached either
// by raw score or by a slightly lower score with a clear margin over the
// runner-up.
const (
	DefaultHighScore          = 0.82
	DefaultHighMarginScore    = 0.78
	DefaultHighMargin         = 0.05
	DefaultMediumScore        = 0.72
	DefaultMediumMarginScore  = 0.68
	DefaultMediumMargin       = 0.03
	DefaultLowScore           = 0.60
	DefaultConfirmationBoost  = 0.08
	DefaultMinDocumentLength  = 50
	DefaultEmbedExcerptChars  = 800
	DefaultPromptExcerptChars = 1200
	DefaultLLMTemperature     = 0.1
	DefaultLLMMaxTokens       = 150
)

// minExcerptChars is the floor under which the filtered excerpt is
// abandoned for the raw document head.
const minExcerptChars = 30

// standardIDPattern finds dotted standard ids inside filenames.
var standardIDPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// Classifier assigns documents to catalog standards through a cascade of
// cheap-to-expensive stages.
type Classifier struct {
	embedder   embed.Embedder
	cache      *standards.EmbeddingCache
	provider   llm.Provider
	thresholds Thresholds
}

// NewClassifier creates a classifier. provider may be nil, in which case
// low-confidence documents stop at the embedding tier's fallback result.
func NewClassifier(embedder embed.Embedder, cache *standards.EmbeddingCache, provider llm.Provider, thresholds Thresholds) *Classifier {
	if thresholds.High == 0 {
		thresholds.High = DefaultHighScore
	}
	if thresholds.HighMargin == 0 {
		thresholds.HighMargin = DefaultHighMargin
	}
	if thresholds.Medium == 0 {
		thresholds.Medium = DefaultMediumScore
	}
	if thresholds.MediumMargin == 0 {
		thresholds.MediumMargin = DefaultMediumMargin
	}
	if thresholds.Low == 0 {
		thresholds.Low = DefaultLowScore
	}
	return &Classifier{
		embedder:   embedder,
		cache:      cache,
		provider:   provider,
		thresholds: thresholds,
	}
}

// Classify assigns a document to a standard. The cascade runs a length
// guard, a filename hint, embedding similarity against the catalog, and
// finally an LLM, stopping at the first stage that is confident enough.
func (c *Classifier) Classify(ctx context.Context, text, filename string) Result {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < DefaultMinDocumentLength {
		slog.Warn("document too short to classify", "filename", filename, "chars", len(text))
		return Result{
			Confidence: ConfidenceNone,
			Reasoning:  "Document too short for analysis",
			Tier:       TierGuard,
		}
	}

	hint := filenameHint(filename)
	if hint != "" {
		slog.Info("filename hint detected", "filename", filename, "standard_id", hint)
	}

	if result, ok := c.classifyByEmbedding(ctx, text, hint); ok {
		return result
	}

	slog.Info("embedding confidence too low, falling back to language model", "filename", filename)
	return c.classifyByLLM(ctx, text, filename)
}

// filenameHint extracts a dotted standard id from the filename. Ids not
// in the catalog are ignored.
func filenameHint(filename string) string {
	m := standardIDPattern.FindString(strings.ToLower(filename))
	if m == "" || !standards.IsKnown(m) {
		return ""
	}
	return m
}

// classifyByEmbedding scores the document excerpt against every cached
// standard embedding. It reports ok=false when similarity is too low to
// decide or the stage itself fails.
func (c *Classifier) classifyByEmbedding(ctx context.Context, text, hint string) (Result, bool) {
	excerpt := extractMeaningfulContent(text, DefaultEmbedExcerptChars)
	if utf8.RuneCountInString(excerpt) < minExcerptChars {
		excerpt = truncateRunes(text, DefaultEmbedExcerptChars)
	}

	docVec, err := c.embedder.Embed(ctx, excerpt)
	if err != nil {
		slog.Warn("embedding stage failed", "error", err)
		return Result{}, false
	}

	catalog, err := c.cache.Get(ctx)
	if err != nil {
		slog.Warn("standard embeddings unavailable", "error", err)
		return Result{}, false
	}

	best := ""
	bestScore := -1.0
	secondScore := -1.0
	for _, id := range standards.IDs() {
		vec, ok := catalog[id]
		if !ok {
			continue
		}
		score := cosineSimilarity(docVec, vec)
		if score > bestScore {
			secondScore = bestScore
			bestScore = score
			best = id
		} else if score > secondScore {
			secondScore = score
		}
	}
	if best == "" {
		return Result{}, false
	}
	margin := bestScore - secondScore

	confirmed := false
	if hint != "" && hint == best {
		bestScore += DefaultConfirmationBoost
		confirmed = true
		slog.Info("filename hint confirmed by embedding match", "standard_id", best)
	} else if hint != "" {
		slog.Warn("filename hint differs from embedding match, trusting content",
			"hint", hint, "matched", best)
	}

	confidence := c.confidenceFor(bestScore, margin)
	if confidence == "" {
		return Result{}, false
	}

	reasoning := fmt.Sprintf("Embedding similarity: %.2f, margin: %.2f", bestScore, margin)
	if confirmed {
		reasoning += " (filename confirmed)"
	}
	slog.Info("embedding tier classified document",
		"standard_id", best,
		"confidence", confidence,
		"score", bestScore,
		"margin", margin)

	return Result{
		StandardID: best,
		Confidence: confidence,
		Reasoning:  reasoning,
		Tier:       TierEmbedding,
	}, true
}

// confidenceFor maps a score and margin to a confidence level, or ""
// when too low to decide.
func (c *Classifier) confidenceFor(score, margin float64) Confidence {
	t := c.thresholds
	switch {
	case score > t.High || (score > DefaultHighMarginScore && margin > t.HighMargin):
		return ConfidenceHigh
	case score > t.Medium || (score > DefaultMediumMarginScore && margin > t.MediumMargin):
		return ConfidenceMedium
	case score > t.Low:
		return ConfidenceLow
	default:
		return ""
	}
}

// classifyByLLM asks the language model to pick a standard. Any failure
// in the stage yields an unclassified low-confidence result.
func (c *Classifier) classifyByLLM(ctx context.Context, text, filename string) Result {
	failed := func(reasoning string) Result {
		return Result{Confidence: ConfidenceLow, Reasoning: reasoning, Tier: TierLLM}
	}

	if c.provider == nil {
		return failed("No language model configured")
	}

	excerpt := extractMeaningfulContent(text, DefaultPromptExcerptChars)
	output, err := c.provider.Complete(ctx, buildAnalysisPrompt(filename, excerpt), llm.Options{
		Temperature: DefaultLLMTemperature,
		MaxTokens:   DefaultLLMMaxTokens,
	})
	if err != nil {
		slog.Warn("language model classification failed", "error", err)
		return failed(fmt.Sprintf("LLM analysis error: %v", err))
	}

	answer, ok := parseLLMAnswer(output)
	if !ok {
		return failed("Could not parse LLM response")
	}

	confidence := Confidence(answer.Confidence)
	if !confidence.Valid() || confidence == ConfidenceNone {
		confidence = ConfidenceLow
	}
	return Result{
		StandardID: answer.StandardID,
		Confidence: confidence,
		Reasoning:  answer.Reasoning,
		Tier:       TierLLM,
	}
}
