package driving

import (
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// DocumentSearch is a stateful find/replace session over one open
// document.
type DocumentSearch interface {
	// Open starts a session. Reopening an open session is a no-op.
	Open()

	// Close clears query, matches and error state.
	Close()

	// SetQuery compiles the query and synchronously re-applies it
	// against the live document. An invalid pattern is recorded as
	// the session error state, not returned as a panic; navigation
	// and replace stay disabled until the pattern is corrected.
	SetQuery(q domain.SearchQuery)

	// FindNext moves the active match forward, wrapping past the
	// last match to the first. No-op when there are no matches.
	FindNext()

	// FindPrevious moves the active match backward, wrapping past
	// the first match to the last. No-op when there are no matches.
	FindPrevious()

	// ReplaceOne replaces the active match and recomputes matches.
	ReplaceOne()

	// ReplaceAll replaces every match in one transaction and
	// recomputes matches.
	ReplaceAll()

	// MatchCount returns the live total match count.
	MatchCount() int

	// ActiveIndex returns the 1-based index of the active match, or
	// 0 when no match is active.
	ActiveIndex() int

	// ActiveMatch returns the absolute byte span of the active
	// match. False when no match is active.
	ActiveMatch() (domain.Match, bool)

	// Matches returns the absolute byte spans of all matches.
	Matches() []domain.Match

	// Err returns the current query error state, if any.
	Err() error
}
