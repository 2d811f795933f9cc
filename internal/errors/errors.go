package errors

import (
	"errors"
	"fmt"
)

// SanadError is the structured error type for Sanad.
// It provides context for error handling, logging, and degradation decisions:
// provider errors are recoverable via fallback paths, input errors produce
// degraded-but-valid results, not-found conditions produce empty results.
type SanadError struct {
	// Code is the unique error code (e.g., "ERR_301_EMBEDDING_FAILED").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Input, Provider, ...).
	Category Category

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *SanadError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SanadError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with SanadError.
func (e *SanadError) Is(target error) bool {
	if t, ok := target.(*SanadError); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new SanadError with the given code and message.
// Category and retryable flag are derived from the code.
func New(code string, message string, cause error) *SanadError {
	return &SanadError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a SanadError from an existing error.
// The error's message becomes the SanadError message.
func Wrap(code string, err error) *SanadError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InputError creates an input-validation error.
func InputError(message string, cause error) *SanadError {
	return New(ErrCodeInvalidInput, message, cause)
}

// ProviderError creates an external-collaborator error.
// Provider errors are typically retryable.
func ProviderError(code, message string, cause error) *SanadError {
	return New(code, message, cause)
}

// NotFound creates a not-found condition for a source or scope.
func NotFound(code, message string) *SanadError {
	return New(code, message, nil)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *SanadError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error chain contains a SanadError with the
// Retryable flag set.
func IsRetryable(err error) bool {
	var se *SanadError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// GetCategory extracts the category from a SanadError anywhere in the
// chain. Returns empty string if none is found.
func GetCategory(err error) Category {
	var se *SanadError
	if errors.As(err, &se) {
		return se.Category
	}
	return ""
}

// GetCode extracts the error code from a SanadError anywhere in the
// chain. Returns empty string if none is found.
func GetCode(err error) string {
	var se *SanadError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
