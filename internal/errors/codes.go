// Package errors provides structured error handling for Sanad.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Input validation errors
//   - 3XX: Provider errors (embedding, language model, vector store)
//   - 4XX: Not-found conditions
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryInput indicates malformed or unusable caller input.
	CategoryInput Category = "INPUT"
	// CategoryProvider indicates a failure in an external collaborator
	// (embedding provider, language model, or vector store).
	CategoryProvider Category = "PROVIDER"
	// CategoryNotFound indicates a requested source or scope has no data.
	CategoryNotFound Category = "NOTFOUND"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Input errors (200-299)
	ErrCodeInvalidInput  = "ERR_201_INVALID_INPUT"
	ErrCodeEmptyDocument = "ERR_202_EMPTY_DOCUMENT"

	// Provider errors (300-399)
	ErrCodeEmbeddingFailed  = "ERR_301_EMBEDDING_FAILED"
	ErrCodeCompletionFailed = "ERR_302_COMPLETION_FAILED"
	ErrCodeStoreUnavailable = "ERR_303_STORE_UNAVAILABLE"
	ErrCodeStoreQuery       = "ERR_304_STORE_QUERY"
	ErrCodeStoreWrite       = "ERR_305_STORE_WRITE"

	// Not-found conditions (400-499)
	ErrCodeSourceNotFound = "ERR_401_SOURCE_NOT_FOUND"
	ErrCodeScopeNotFound  = "ERR_402_SCOPE_NOT_FOUND"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode derives the category from an error code prefix.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryInput
	case '3':
		return CategoryProvider
	case '4':
		return CategoryNotFound
	default:
		return CategoryInternal
	}
}

// retryableCodes lists codes for transient failures worth retrying.
var retryableCodes = map[string]bool{
	ErrCodeEmbeddingFailed:  true,
	ErrCodeCompletionFailed: true,
	ErrCodeStoreUnavailable: true,
}

// isRetryableCode reports whether the code describes a transient failure.
func isRetryableCode(code string) bool {
	return retryableCodes[code]
}
