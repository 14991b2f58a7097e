// Package textmatch compiles user search input into a literal or
// regex-backed matcher and locates non-overlapping occurrences.
//
// A query built from raw user input resolves to one of two scan paths:
// plain case-sensitive literals keep a strings.Index scan, everything
// else (case folding, whole-word wrapping, user regex) compiles to a
// regular expression. Malformed user regexes surface as
// domain.ErrInvalidPattern, never a panic.
package textmatch

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// Options control how a pattern is interpreted.
type Options struct {
	// CaseSensitive toggles case-sensitive matching.
	CaseSensitive bool

	// WholeWord restricts matches to word boundaries.
	WholeWord bool

	// UseRegex interprets the pattern as a regular expression.
	UseRegex bool
}

// Query is a compiled matcher. The zero value matches nothing.
type Query struct {
	raw     string
	opts    Options
	literal string
	re      *regexp.Regexp
}

// Compile builds a Query from raw user input. A pattern that is not a
// regex has its metacharacters escaped before any whole-word wrapping,
// so it always matches literally. An empty pattern compiles to a query
// that matches nothing.
func Compile(pattern string, opts Options) (*Query, error) {
	q := &Query{raw: pattern, opts: opts}
	if pattern == "" {
		return q, nil
	}

	if !opts.UseRegex && !opts.WholeWord && opts.CaseSensitive {
		q.literal = pattern
		return q, nil
	}

	expr := pattern
	if !opts.UseRegex {
		expr = regexp.QuoteMeta(expr)
	}
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}
	if !opts.CaseSensitive {
		expr = `(?i)` + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, domain.ErrInvalidPattern)
	}
	q.re = re
	return q, nil
}

// FromSearchQuery compiles the pattern and options of a domain query.
func FromSearchQuery(sq domain.SearchQuery) (*Query, error) {
	return Compile(sq.Pattern, Options{
		CaseSensitive: sq.CaseSensitive,
		WholeWord:     sq.WholeWord,
		UseRegex:      sq.UseRegex,
	})
}

// IsEmpty returns true if the query was compiled from an empty pattern.
func (q *Query) IsEmpty() bool {
	return q == nil || q.raw == ""
}

// FindAll returns the non-overlapping (start, end) byte spans of every
// match in hay, left to right. A zero-width match advances the scan by
// one rune so the loop always terminates.
func (q *Query) FindAll(hay string) [][2]int {
	if q.IsEmpty() {
		return nil
	}
	if q.re == nil {
		return FindLiteral(hay, q.literal)
	}

	var spans [][2]int
	pos := 0
	for pos <= len(hay) {
		loc := q.re.FindStringIndex(hay[pos:])
		if loc == nil {
			break
		}
		from, to := pos+loc[0], pos+loc[1]
		spans = append(spans, [2]int{from, to})
		if to == from {
			_, size := utf8.DecodeRuneInString(hay[from:])
			if size == 0 {
				size = 1
			}
			pos = from + size
		} else {
			pos = to
		}
	}
	return spans
}

// Replace substitutes every match in text with replacement, returning
// the rewritten text and the number of occurrences replaced. Regex
// queries expand $1-style group references; literal queries insert the
// replacement verbatim even when matching runs on the regex path.
func (q *Query) Replace(text, replacement string) (string, int) {
	if q.IsEmpty() {
		return text, 0
	}
	if q.re == nil {
		n := strings.Count(text, q.literal)
		if n == 0 {
			return text, 0
		}
		return strings.ReplaceAll(text, q.literal, replacement), n
	}

	matches := q.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		if q.opts.UseRegex {
			b.Write(q.re.ExpandString(nil, replacement, text, m))
		} else {
			b.WriteString(replacement)
		}
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String(), len(matches)
}

// Expand returns the replacement text for one matched span. Regex
// queries expand $group references against the span; literal queries
// return the replacement verbatim. The span must be exactly one match
// of the query, as produced by FindAll.
func (q *Query) Expand(span, replacement string) string {
	if q.re != nil && q.opts.UseRegex {
		if m := q.re.FindStringSubmatchIndex(span); m != nil && m[0] == 0 && m[1] == len(span) {
			return string(q.re.ExpandString(nil, replacement, span, m))
		}
	}
	return replacement
}

// DiffRange returns the minimal replaced range of oldText after it
// became newText, addressed against oldText. A pure insertion yields a
// zero-width range. Returns false when the texts are equal.
func DiffRange(oldText, newText string) (domain.EditDelta, bool) {
	if oldText == newText {
		return domain.EditDelta{}, false
	}
	prefix := 0
	for prefix < len(oldText) && prefix < len(newText) && oldText[prefix] == newText[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldText)-prefix && suffix < len(newText)-prefix &&
		oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}
	return domain.EditDelta{FromOld: prefix, ToOld: len(oldText) - suffix}, true
}

// FindLiteral returns the non-overlapping occurrences of needle in hay,
// left to right, advancing past each found occurrence. An empty needle
// yields no occurrences.
func FindLiteral(hay, needle string) [][2]int {
	if needle == "" {
		return nil
	}
	var spans [][2]int
	start := 0
	for {
		i := strings.Index(hay[start:], needle)
		if i < 0 {
			return spans
		}
		from := start + i
		to := from + len(needle)
		spans = append(spans, [2]int{from, to})
		start = to
	}
}
