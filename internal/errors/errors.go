// Package errors provides the analyzer's stable, documented error codes.
package errors

import "fmt"

// ErrorCode represents a stable, documented failure mode of the analyzer or
// its driver.
type ErrorCode string

const (
	// ErrCacheVersionMismatch indicates the on-disk manifest's version does
	// not match CURRENT_VERSION; treated as a cold start, never fatal.
	ErrCacheVersionMismatch ErrorCode = "CACHE_VERSION_MISMATCH"
	// ErrCacheMiss indicates a cache-only run found a stale or absent entry.
	ErrCacheMiss ErrorCode = "CACHE_MISS"
	// ErrProjectRootInvalid indicates the configured project root does not
	// exist or is not a directory.
	ErrProjectRootInvalid ErrorCode = "PROJECT_ROOT_INVALID"
	// ErrManifestInvalid indicates the package-manifest reader produced an
	// unusable Module Map.
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// ErrInternalInconsistency indicates a graph invariant was violated
	// (e.g. a node present in a graph's node set with no path to it).
	ErrInternalInconsistency ErrorCode = "INTERNAL_INCONSISTENCY"
)

// DivetError is the analyzer's structured error type: a stable code, a
// human message, and an optional wrapped cause.
type DivetError struct {
	Code    ErrorCode
	Message string
	cause   error
}

// New creates a DivetError with no cause.
func New(code ErrorCode, message string) *DivetError {
	return &DivetError{Code: code, Message: message}
}

// Wrap creates a DivetError that preserves an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *DivetError {
	return &DivetError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *DivetError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *DivetError) Unwrap() error {
	return e.cause
}
