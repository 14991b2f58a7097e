package driven

import (
	"context"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// HistoryStore persists completed workspace searches.
// Backed by SQLite; recording is best-effort and never blocks a scan.
type HistoryStore interface {
	// Record stores one completed search.
	Record(ctx context.Context, rec domain.SearchRecord) error

	// Recent returns up to limit records, most recent first.
	Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error)

	// Prune removes old records beyond the retention limit.
	// Keeps the most recent 'keep' records.
	Prune(ctx context.Context, keep int) error

	// Close releases the underlying storage.
	Close() error
}
