package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/inkstone-labs/inkstone/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
)

// Store is a SQLite-based storage for search history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.inkstone/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".inkstone", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Record stores one completed search.
func (s *historyStore) Record(ctx context.Context, rec domain.SearchRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}

	executedAt := rec.ExecutedAt
	if executedAt.IsZero() {
		executedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_history
			(id, pattern, case_sensitive, whole_word, use_regex, file_count, match_count, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pattern = excluded.pattern,
			case_sensitive = excluded.case_sensitive,
			whole_word = excluded.whole_word,
			use_regex = excluded.use_regex,
			file_count = excluded.file_count,
			match_count = excluded.match_count,
			executed_at = excluded.executed_at
	`, rec.ID, rec.Pattern, boolToInt(rec.CaseSensitive), boolToInt(rec.WholeWord),
		boolToInt(rec.UseRegex), rec.FileCount, rec.MatchCount, executedAt)

	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// Recent returns up to limit records, most recent first.
func (s *historyStore) Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, pattern, case_sensitive, whole_word, use_regex, file_count, match_count, executed_at
		FROM search_history
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying search history: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanSearchRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search history: %w", err)
	}

	return records, nil
}

// Prune removes all but the most recent keep records.
func (s *historyStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM search_history
		WHERE id NOT IN (
			SELECT id FROM search_history
			ORDER BY executed_at DESC, id DESC
			LIMIT ?
		)
	`, keep)

	if err != nil {
		return fmt.Errorf("pruning search history: %w", err)
	}
	return nil
}

// Close closes the backing store.
func (s *historyStore) Close() error {
	return s.store.Close()
}

// ==================== Helper Functions ====================

// boolToInt converts a bool to its SQLite integer form.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanSearchRecord scans a search record from *sql.Rows.
func scanSearchRecord(rows *sql.Rows) (*domain.SearchRecord, error) {
	var rec domain.SearchRecord
	var caseSensitive, wholeWord, useRegex int
	var executedAt sql.NullTime

	if err := rows.Scan(&rec.ID, &rec.Pattern, &caseSensitive, &wholeWord,
		&useRegex, &rec.FileCount, &rec.MatchCount, &executedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning search record: %w", err)
	}

	rec.CaseSensitive = caseSensitive != 0
	rec.WholeWord = wholeWord != 0
	rec.UseRegex = useRegex != 0
	if executedAt.Valid {
		rec.ExecutedAt = executedAt.Time
	}

	return &rec, nil
}
