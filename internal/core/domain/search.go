package domain

import "fmt"

// SearchQuery is the raw user search input plus its matching options.
type SearchQuery struct {
	// Pattern is the user-supplied search text. Treated as a literal
	// unless UseRegex is set.
	Pattern string

	// CaseSensitive toggles case-sensitive matching.
	CaseSensitive bool

	// WholeWord restricts matches to word boundaries.
	WholeWord bool

	// UseRegex interprets Pattern as a regular expression.
	UseRegex bool

	// Replacement is the substitution text for replace operations.
	Replacement string
}

// IsEmpty returns true if the query has no pattern to match.
func (q SearchQuery) IsEmpty() bool {
	return q.Pattern == ""
}

// Match is one query occurrence in an open document, addressed by
// absolute half-open byte offsets into the document text.
type Match struct {
	// From is the inclusive start offset.
	From int

	// To is the exclusive end offset.
	To int
}

// LineMatch is a single match occurrence on one logical line.
// A line with several occurrences produces several entries.
type LineMatch struct {
	// LineNumber is the 1-based line number within the file.
	LineNumber int

	// LineText is the full text of the matched line, without the
	// trailing newline.
	LineText string

	// MatchStart is the byte offset of the match within LineText.
	MatchStart int

	// MatchEnd is the exclusive end offset within LineText.
	MatchEnd int
}

// FileResult aggregates the matches found in one workspace file.
// Results are rebuilt from scratch on every search run.
type FileResult struct {
	// Path is the file path relative to the workspace root.
	Path string

	// Matches are the match occurrences in file order.
	Matches []LineMatch

	// Collapsed is presentation state for result listings. It has no
	// effect on search semantics.
	Collapsed bool
}

// MatchCount returns the number of match occurrences in the file.
func (r FileResult) MatchCount() int {
	return len(r.Matches)
}

// ReplaceReport is the aggregate outcome of a workspace replace-all.
// Partial success is a valid terminal outcome: per-file failures are
// counted, never fatal.
type ReplaceReport struct {
	// FilesChanged is the number of files rewritten on disk.
	FilesChanged int

	// MatchesReplaced is the total number of occurrences replaced.
	MatchesReplaced int

	// FilesFailed is the number of files skipped due to read or
	// write errors.
	FilesFailed int
}

// Summary renders the user-visible one-line report.
func (r ReplaceReport) Summary() string {
	s := fmt.Sprintf("replaced %d occurrence(s) across %d file(s)", r.MatchesReplaced, r.FilesChanged)
	if r.FilesFailed > 0 {
		s += fmt.Sprintf(", %d file(s) failed", r.FilesFailed)
	}
	return s
}
