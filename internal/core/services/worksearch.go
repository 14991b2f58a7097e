package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
	"github.com/inkstone-labs/inkstone/internal/logger"
	"github.com/inkstone-labs/inkstone/internal/textmatch"
)

const (
	// defaultDebounce coalesces rapid query edits before a scan starts.
	defaultDebounce = 200 * time.Millisecond

	// defaultWorkers bounds the number of files scanned in parallel.
	defaultWorkers = 4

	// defaultHistoryKeep is how many history records survive pruning.
	defaultHistoryKeep = 50
)

// Ensure WorkspaceSearchSession implements the interface.
var _ driving.WorkspaceSearch = (*WorkspaceSearchSession)(nil)

// WorkspaceSearchSession scans every text file in a workspace for a
// query and aggregates per-file line matches. Query edits are debounced
// so a scan only starts once the user pauses; each scan carries a
// generation token, and results arriving for a superseded generation
// are discarded rather than merged. The latest query is authoritative.
type WorkspaceSearchSession struct {
	workspace driven.Workspace
	history   driven.HistoryStore

	mu          sync.Mutex
	query       domain.SearchQuery
	compiled    *textmatch.Query
	lastErr     error
	results     []domain.FileResult
	searching   bool
	generation  uint64
	timer       *time.Timer
	debounce    time.Duration
	workers     int
	limiter     *rate.Limiter
	historyKeep int
	completeFns []func(results []domain.FileResult)
}

// NewWorkspaceSearch creates a session over a workspace. The history
// store is optional; pass nil to disable search history.
func NewWorkspaceSearch(workspace driven.Workspace, history driven.HistoryStore) *WorkspaceSearchSession {
	return &WorkspaceSearchSession{
		workspace:   workspace,
		history:     history,
		debounce:    defaultDebounce,
		workers:     defaultWorkers,
		historyKeep: defaultHistoryKeep,
	}
}

// SetDebounce overrides the delay between a query edit and its scan.
func (s *WorkspaceSearchSession) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.debounce = d
	}
}

// SetWorkers overrides how many files are scanned in parallel.
func (s *WorkspaceSearchSession) SetWorkers(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.workers = n
	}
}

// SetRateLimit paces file reads to at most perSec per second. Zero or
// negative disables pacing.
func (s *WorkspaceSearchSession) SetRateLimit(perSec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if perSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
	} else {
		s.limiter = nil
	}
}

// SetHistoryKeep overrides how many history records survive pruning.
func (s *WorkspaceSearchSession) SetHistoryKeep(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.historyKeep = n
	}
}

// SetQuery schedules a debounced scan for the query. Rapid calls
// coalesce: each call stops the previous timer, so only the most recent
// query's scan runs. An invalid pattern becomes the session error state
// and schedules nothing; an empty pattern clears the results and
// supersedes any in-flight scan.
func (s *WorkspaceSearchSession) SetQuery(q domain.SearchQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = q
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	compiled, err := textmatch.FromSearchQuery(q)
	if err != nil {
		s.compiled = nil
		s.lastErr = err
		logger.Warn("Search pattern rejected: %v", err)
		return
	}
	s.compiled = compiled
	s.lastErr = nil

	if q.IsEmpty() {
		s.generation++
		s.results = nil
		s.searching = false
		return
	}

	s.timer = time.AfterFunc(s.debounce, func() { s.runDebounced(q, compiled) })
	logger.Debug("Scan for %q scheduled in %s", q.Pattern, s.debounce)
}

// RunSearch scans immediately, bypassing the debounce, and blocks until
// the scan completes or the context is cancelled. The scan's results
// are returned to the caller even if a newer query supersedes them
// before they are installed as the session state.
func (s *WorkspaceSearchSession) RunSearch(ctx context.Context, q domain.SearchQuery) ([]domain.FileResult, error) {
	if q.IsEmpty() {
		return nil, fmt.Errorf("running workspace search: %w", domain.ErrNoQuery)
	}
	compiled, err := textmatch.FromSearchQuery(q)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.query = q
	s.compiled = compiled
	s.lastErr = nil
	gen := s.claimLocked()
	s.mu.Unlock()

	results, scanErr := s.scan(ctx, compiled)
	s.finish(ctx, gen, q, results, scanErr)
	if scanErr != nil {
		return nil, scanErr
	}
	return results, nil
}

// Results returns the latest completed scan's results, sorted by path.
func (s *WorkspaceSearchSession) Results() []domain.FileResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.FileResult, len(s.results))
	copy(out, s.results)
	return out
}

// Searching reports whether a scan is in flight.
func (s *WorkspaceSearchSession) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// OnComplete registers an observer called each time a scan finishes
// with the authoritative results for its query. Superseded scans never
// reach observers.
func (s *WorkspaceSearchSession) OnComplete(fn func(results []domain.FileResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeFns = append(s.completeFns, fn)
}

// LastError returns the most recent query compile or scan error.
func (s *WorkspaceSearchSession) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ReplaceAll re-reads every file in the current results, applies the
// query's substitution to the whole file text, and writes back only
// files whose content actually changed. A per-file read or write
// failure is counted and the remaining files are still processed. The
// match cache is invalidated afterwards, since offsets are no longer
// valid.
func (s *WorkspaceSearchSession) ReplaceAll(ctx context.Context, replacement string) (domain.ReplaceReport, error) {
	s.mu.Lock()
	compiled := s.compiled
	empty := s.query.IsEmpty()
	paths := make([]string, 0, len(s.results))
	for _, r := range s.results {
		paths = append(paths, r.Path)
	}
	s.mu.Unlock()

	var report domain.ReplaceReport
	if compiled == nil || empty {
		return report, fmt.Errorf("replacing across workspace: %w", domain.ErrNoQuery)
	}
	if len(paths) == 0 {
		return report, nil
	}

	logger.Section(fmt.Sprintf("Replacing across %d file(s)", len(paths)))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		text, err := s.workspace.ReadText(ctx, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			report.FilesFailed++
			continue
		}
		newText, n := replaceLines(text, compiled, replacement)
		if n == 0 || newText == text {
			continue
		}
		if err := s.workspace.WriteText(ctx, path, newText); err != nil {
			logger.Warn("Writing %s failed: %v", path, err)
			report.FilesFailed++
			continue
		}
		report.FilesChanged++
		report.MatchesReplaced += n
		logger.Debug("Rewrote %s (%d occurrence(s))", path, n)
	}

	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()

	logger.Info("%s", report.Summary())
	return report, nil
}

// WatchWorkspace re-runs the current query through the usual debounce
// whenever a workspace file changes. It blocks until the context is
// cancelled or the watcher closes, and returns an error wrapping
// domain.ErrNotSupported when the workspace adapter cannot watch.
func (s *WorkspaceSearchSession) WatchWorkspace(ctx context.Context) error {
	changes, err := s.workspace.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching workspace: %w", err)
	}
	logger.Info("Watching workspace for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			s.mu.Lock()
			rescan := s.compiled != nil && !s.query.IsEmpty()
			if rescan {
				if s.timer != nil {
					s.timer.Stop()
				}
				q, compiled := s.query, s.compiled
				s.timer = time.AfterFunc(s.debounce, func() { s.runDebounced(q, compiled) })
			}
			s.mu.Unlock()
			if rescan {
				logger.Debug("File %s %s, rescan scheduled", change.Path, change.Type)
			}
		}
	}
}

// Stop cancels any pending debounce timer. An in-flight scan is not
// interrupted; its results are discarded if a newer query has claimed
// the session by the time it finishes.
func (s *WorkspaceSearchSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// runDebounced runs on the debounce timer's goroutine once the delay
// elapses without being superseded.
func (s *WorkspaceSearchSession) runDebounced(q domain.SearchQuery, compiled *textmatch.Query) {
	s.mu.Lock()
	gen := s.claimLocked()
	s.mu.Unlock()

	results, err := s.scan(context.Background(), compiled)
	s.finish(context.Background(), gen, q, results, err)
}

// claimLocked makes the caller's scan the authoritative one. Any scan
// holding an older generation token is superseded from this point on.
// Callers must hold the session lock.
func (s *WorkspaceSearchSession) claimLocked() uint64 {
	s.generation++
	s.searching = true
	return s.generation
}

// scan enumerates candidate files and runs the query over each on a
// bounded worker pool. Unreadable files are skipped without aborting
// the scan. Results arrive in any order and are sorted by path before
// being returned.
func (s *WorkspaceSearchSession) scan(ctx context.Context, q *textmatch.Query) ([]domain.FileResult, error) {
	s.mu.Lock()
	workers := s.workers
	limiter := s.limiter
	s.mu.Unlock()

	files, err := s.workspace.ListTextFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workspace files: %w", err)
	}
	logger.Debug("Scanning %d candidate file(s) with %d worker(s)", len(files), workers)

	jobs := make(chan string)
	var resultsMu sync.Mutex
	var results []domain.FileResult

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}
				text, err := s.workspace.ReadText(ctx, path)
				if err != nil {
					logger.Warn("Skipping unreadable file %s: %v", path, err)
					continue
				}
				matches := scanLines(text, q)
				if len(matches) == 0 {
					continue
				}
				resultsMu.Lock()
				results = append(results, domain.FileResult{Path: path, Matches: matches})
				resultsMu.Unlock()
			}
		}()
	}

feed:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// finish installs a scan's outcome as the session state, unless a newer
// query has claimed the session in the meantime, in which case the
// outcome is discarded. Authoritative completions notify observers and
// append to the search history, best-effort.
func (s *WorkspaceSearchSession) finish(ctx context.Context, gen uint64, q domain.SearchQuery, results []domain.FileResult, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		logger.Debug("Discarding superseded scan (generation %d)", gen)
		return
	}
	s.searching = false
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		logger.Warn("Workspace scan failed: %v", err)
		return
	}
	s.results = results
	observers := make([]func([]domain.FileResult), len(s.completeFns))
	copy(observers, s.completeFns)
	history := s.history
	keep := s.historyKeep
	s.mu.Unlock()

	total := 0
	for _, r := range results {
		total += r.MatchCount()
	}
	logger.Info("Scan complete: %d match(es) in %d file(s)", total, len(results))

	for _, fn := range observers {
		fn(results)
	}

	if history == nil {
		return
	}
	rec := domain.SearchRecord{
		ID:            uuid.NewString(),
		Pattern:       q.Pattern,
		CaseSensitive: q.CaseSensitive,
		WholeWord:     q.WholeWord,
		UseRegex:      q.UseRegex,
		FileCount:     len(results),
		MatchCount:    total,
		ExecutedAt:    time.Now().UTC(),
	}
	if err := history.Record(ctx, rec); err != nil {
		logger.Warn("Recording search history failed: %v", err)
		return
	}
	if err := history.Prune(ctx, keep); err != nil {
		logger.Warn("Pruning search history failed: %v", err)
	}
}
