// Package llm provides text completion providers for classification fallback.
package llm

import (
	"context"
	"time"
)

// Default configuration values.
const (
	DefaultTimeout = 120 * time.Second
)

// Options controls a single completion request.
type Options struct {
	// Temperature controls sampling randomness (0 = deterministic-ish).
	Temperature float64

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
}

// Provider generates text completions.
type Provider interface {
	// Complete generates a completion for the prompt.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)

	// ModelName returns the model identifier.
	ModelName() string

	// Available reports whether the provider is reachable.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}
