package services

import (
	"strings"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/textmatch"
)

// Matching is line-oriented throughout: documents are split on '\n' and
// the query runs against each line, so a pattern never spans a line
// break. The helpers here convert between line-local spans and the
// absolute document offsets the sessions work in.

// scanDocument finds every occurrence in the document and returns
// absolute byte spans, derived from each line's start offset.
func scanDocument(text string, q *textmatch.Query) []domain.Match {
	var matches []domain.Match
	lineStart := 0
	for _, line := range strings.Split(text, "\n") {
		for _, span := range q.FindAll(line) {
			matches = append(matches, domain.Match{
				From: lineStart + span[0],
				To:   lineStart + span[1],
			})
		}
		lineStart += len(line) + 1
	}
	return matches
}

// scanLines finds every occurrence in the file and returns one entry
// per occurrence with its 1-based line number and line-local span.
func scanLines(text string, q *textmatch.Query) []domain.LineMatch {
	var matches []domain.LineMatch
	for i, line := range strings.Split(text, "\n") {
		for _, span := range q.FindAll(line) {
			matches = append(matches, domain.LineMatch{
				LineNumber: i + 1,
				LineText:   line,
				MatchStart: span[0],
				MatchEnd:   span[1],
			})
		}
	}
	return matches
}

// replaceLines applies the query's substitution to every line and
// returns the new text and the number of occurrences replaced. Lines
// are rejoined with '\n', so the transformation is lossless for
// unmatched text.
func replaceLines(text string, q *textmatch.Query, replacement string) (string, int) {
	lines := strings.Split(text, "\n")
	total := 0
	for i, line := range lines {
		replaced, n := q.Replace(line, replacement)
		if n > 0 {
			lines[i] = replaced
			total += n
		}
	}
	if total == 0 {
		return text, 0
	}
	return strings.Join(lines, "\n"), total
}
