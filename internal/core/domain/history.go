package domain

import "time"

// SearchRecord is one persisted history entry for a completed
// workspace scan.
type SearchRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// Pattern is the query pattern that was searched.
	Pattern string

	// CaseSensitive records the query's case option.
	CaseSensitive bool

	// WholeWord records the query's word-boundary option.
	WholeWord bool

	// UseRegex records whether the pattern was a regex.
	UseRegex bool

	// FileCount is the number of files with at least one match.
	FileCount int

	// MatchCount is the total number of match occurrences.
	MatchCount int

	// ExecutedAt is when the scan completed.
	ExecutedAt time.Time
}
