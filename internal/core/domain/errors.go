package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPattern indicates a user-supplied regex failed to compile.
	// Surfaced as a query-level error state; navigation and replace stay
	// disabled until the pattern is corrected.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNoQuery indicates a search action was requested before any
	// query was set.
	ErrNoQuery = errors.New("no query set")

	// ErrSessionClosed indicates an operation on a closed search session.
	ErrSessionClosed = errors.New("search session closed")

	// ErrReadFailed indicates a file could not be read during a
	// workspace scan. Recovered per file; the scan continues.
	ErrReadFailed = errors.New("read failed")

	// ErrWriteFailed indicates a file could not be written during a
	// workspace replace. Recovered per file; the replace continues.
	ErrWriteFailed = errors.New("write failed")

	// ErrScanInProgress indicates a workspace scan is already running.
	ErrScanInProgress = errors.New("scan in progress")

	// ErrNotSupported indicates an optional capability the adapter
	// does not provide (e.g. file watching).
	ErrNotSupported = errors.New("not supported")
)
