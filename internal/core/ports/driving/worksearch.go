package driving

import (
	"context"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// WorkspaceSearch scans a collection of documents and aggregates
// per-file line matches, with debounced re-querying and an atomic
// per-file replace-all.
type WorkspaceSearch interface {
	// SetQuery schedules a debounced scan for the query. Rapid calls
	// coalesce: only the most recent query is scanned, and results
	// of superseded in-flight scans are discarded.
	SetQuery(q domain.SearchQuery)

	// RunSearch scans immediately, bypassing the debounce. It blocks
	// until the scan completes or the context is cancelled.
	RunSearch(ctx context.Context, q domain.SearchQuery) ([]domain.FileResult, error)

	// Results returns the latest completed scan's results, sorted by
	// path.
	Results() []domain.FileResult

	// Searching reports whether a scan is in flight.
	Searching() bool

	// OnComplete registers an observer called each time a scan
	// finishes with the authoritative results for its query.
	OnComplete(fn func(results []domain.FileResult))

	// ReplaceAll re-reads every file in the current results, applies
	// the query's substitution across the whole file text, and writes
	// back only files whose content changed. Per-file failures are
	// counted, not fatal. Results are invalidated afterwards.
	ReplaceAll(ctx context.Context, replacement string) (domain.ReplaceReport, error)

	// LastError returns the most recent query compile error, if any.
	LastError() error

	// WatchWorkspace re-runs the current query when workspace files
	// change, until the context is cancelled. Returns an error
	// wrapping domain.ErrNotSupported when the workspace adapter
	// cannot watch.
	WatchWorkspace(ctx context.Context) error

	// Stop cancels any pending debounce timer.
	Stop()
}
