package services

import (
	"sync"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
	"github.com/inkstone-labs/inkstone/internal/logger"
	"github.com/inkstone-labs/inkstone/internal/textmatch"
)

// Ensure DocumentSearchSession implements the interface.
var _ driving.DocumentSearch = (*DocumentSearchSession)(nil)

// DocumentSearchSession is a stateful find/replace session over one
// open document. Query changes re-apply synchronously against the live
// document text; navigation cycles through the matches and selects the
// active one in the view; replaces go through the view as ordinary
// edits so the document's own change pipeline observes them.
type DocumentSearchSession struct {
	view driven.DocumentView

	mu       sync.Mutex
	open     bool
	query    domain.SearchQuery
	compiled *textmatch.Query
	matches  []domain.Match
	active   int // index into matches, -1 when none
	err      error
}

// NewDocumentSearch creates a session bound to a document view. The
// session starts closed; call Open before setting a query.
func NewDocumentSearch(view driven.DocumentView) *DocumentSearchSession {
	return &DocumentSearchSession{view: view, active: -1}
}

// Open starts the session. Reopening an open session is a no-op.
func (s *DocumentSearchSession) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open {
		return
	}
	s.open = true
	logger.Debug("Document search session opened")
}

// Close clears query, matches and error state and returns the session
// to closed.
func (s *DocumentSearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.query = domain.SearchQuery{}
	s.compiled = nil
	s.matches = nil
	s.active = -1
	s.err = nil
	logger.Debug("Document search session closed")
}

// SetQuery compiles the query and re-applies it against the live
// document. An invalid pattern becomes the session error state and
// disables navigation and replace until corrected; an empty pattern
// yields zero matches with no error.
func (s *DocumentSearchSession) SetQuery(q domain.SearchQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return
	}

	s.query = q
	s.matches = nil
	s.active = -1

	compiled, err := textmatch.FromSearchQuery(q)
	if err != nil {
		s.compiled = nil
		s.err = err
		logger.Warn("Search pattern rejected: %v", err)
		return
	}
	s.compiled = compiled
	s.err = nil

	s.recomputeLocked()
	logger.Debug("Query %q applied: %d match(es)", q.Pattern, len(s.matches))
}

// FindNext moves the active match forward, wrapping past the last match
// to the first, and selects it in the view. No-op without matches.
func (s *DocumentSearchSession) FindNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || len(s.matches) == 0 {
		return
	}

	if s.active < 0 {
		s.active = 0
	} else {
		s.active = (s.active + 1) % len(s.matches)
	}
	s.selectActiveLocked()
}

// FindPrevious moves the active match backward, wrapping past the first
// match to the last, and selects it in the view. No-op without matches.
func (s *DocumentSearchSession) FindPrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || len(s.matches) == 0 {
		return
	}

	if s.active < 0 {
		s.active = len(s.matches) - 1
	} else {
		s.active = (s.active - 1 + len(s.matches)) % len(s.matches)
	}
	s.selectActiveLocked()
}

// ReplaceOne replaces the active match with the query's replacement and
// recomputes the matches. The active match then advances to the next
// occurrence after the replaced span, if any. The edit itself runs
// outside the session lock so the view's synchronous change
// notifications cannot reenter a locked session.
func (s *DocumentSearchSession) ReplaceOne() {
	s.mu.Lock()
	if !s.open || s.compiled == nil || s.active < 0 || s.active >= len(s.matches) {
		s.mu.Unlock()
		return
	}

	m := s.matches[s.active]
	text := s.view.Text()
	if m.To > len(text) {
		// Document changed under the session; recompute instead.
		s.recomputeLocked()
		s.active = -1
		s.mu.Unlock()
		return
	}
	insert := s.compiled.Expand(text[m.From:m.To], s.query.Replacement)
	s.mu.Unlock()

	sel := domain.Selection{From: m.From, To: m.From + len(insert)}
	err := s.view.ApplyEdit(m.From, m.To, insert, sel)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.Warn("Replace failed: %v", err)
		return
	}

	s.recomputeLocked()
	s.active = -1
	for i, next := range s.matches {
		if next.From >= m.From {
			s.active = i
			break
		}
	}
	if s.active < 0 && len(s.matches) > 0 {
		s.active = 0
	}
	if s.active >= 0 {
		s.selectActiveLocked()
	}
}

// ReplaceAll replaces every match in one edit transaction and
// recomputes the matches. As with ReplaceOne, the edit runs outside
// the session lock.
func (s *DocumentSearchSession) ReplaceAll() {
	s.mu.Lock()
	if !s.open || s.compiled == nil || len(s.matches) == 0 {
		s.mu.Unlock()
		return
	}

	text := s.view.Text()
	newText, n := replaceLines(text, s.compiled, s.query.Replacement)
	if n == 0 || newText == text {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	err := s.view.ApplyEdit(0, len(text), newText, domain.Selection{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.Warn("Replace all failed: %v", err)
		return
	}
	logger.Info("Replaced %d occurrence(s) in document", n)

	s.recomputeLocked()
	s.active = -1
}

// MatchCount returns the live total match count.
func (s *DocumentSearchSession) MatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

// ActiveIndex returns the 1-based index of the active match, or 0 when
// no match is active.
func (s *DocumentSearchSession) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active < 0 {
		return 0
	}
	return s.active + 1
}

// ActiveMatch returns the absolute byte span of the active match.
func (s *DocumentSearchSession) ActiveMatch() (domain.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active < 0 || s.active >= len(s.matches) {
		return domain.Match{}, false
	}
	return s.matches[s.active], true
}

// Matches returns the absolute byte spans of all matches.
func (s *DocumentSearchSession) Matches() []domain.Match {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Err returns the current query error state, if any.
func (s *DocumentSearchSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// recomputeLocked re-runs the compiled query against the live document.
// Callers must hold the session lock.
func (s *DocumentSearchSession) recomputeLocked() {
	if s.compiled == nil {
		s.matches = nil
		return
	}
	s.matches = scanDocument(s.view.Text(), s.compiled)
}

// selectActiveLocked selects the active match in the view. Callers must
// hold the session lock.
func (s *DocumentSearchSession) selectActiveLocked() {
	m := s.matches[s.active]
	s.view.Select(m.From, m.To)
}
