package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

var (
	searchCase    bool
	searchWord    bool
	searchRegex   bool
	searchJSON    bool
	searchFilter  string
	searchLimit   int
	searchContext int
)

// stdoutIsTerminal reports whether stdout is interactive. Grouped
// output is used on a terminal, grep-style lines otherwise. Variable
// so tests can pin the mode.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var searchCmd = &cobra.Command{
	Use:   "search [pattern]",
	Short: "Scan the workspace for a pattern",
	Long: `Scans every text file under the workspace root and prints per-file
line matches. The pattern is matched literally unless --regex is set.
Output is grouped per file on a terminal and grep-style otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchCase, "case-sensitive", false, "match case exactly")
	searchCmd.Flags().BoolVarP(&searchWord, "word", "w", false, "match whole words only")
	searchCmd.Flags().BoolVarP(&searchRegex, "regex", "e", false, "interpret the pattern as a regular expression")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchFilter, "filter", "f", "", "fuzzy filter on result paths")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of files to show (0 = all)")
	searchCmd.Flags().IntVar(&searchContext, "context", -1, "lines of context around matches (-1 = from settings)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()
	q := domain.SearchQuery{
		Pattern:       args[0],
		CaseSensitive: searchCase,
		WholeWord:     searchWord,
		UseRegex:      searchRegex,
	}

	results, err := searchService.RunSearch(ctx, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchFilter != "" {
		results = filterByPath(results, searchFilter)
	}
	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchResults(cmd, results)
}

// filterByPath keeps results whose path fuzzy-matches the filter term.
func filterByPath(results []domain.FileResult, filter string) []domain.FileResult {
	filtered := make([]domain.FileResult, 0, len(results))
	for _, r := range results {
		if fuzzy.MatchFold(filter, r.Path) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func outputSearchJSON(cmd *cobra.Command, results []domain.FileResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchResults(cmd *cobra.Command, results []domain.FileResult) error {
	if len(results) == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	ctxLines := resolveContextLines()
	if !stdoutIsTerminal() {
		return outputSearchPlain(cmd, results, ctxLines)
	}

	total := 0
	for i := range results {
		r := &results[i]
		total += r.MatchCount()

		cmd.Printf("%s (%d)\n", r.Path, r.MatchCount())
		printMatches(cmd, r.Path, r.Matches, ctxLines)
		cmd.Println()
	}

	cmd.Printf("%d match(es) in %d file(s)\n", total, len(results))
	return nil
}

// outputSearchPlain writes grep-style path:line:text lines, with
// path-line-text for surrounding context.
func outputSearchPlain(cmd *cobra.Command, results []domain.FileResult, ctxLines int) error {
	for i := range results {
		r := &results[i]
		if ctxLines <= 0 {
			for _, m := range r.Matches {
				cmd.Printf("%s:%d:%s\n", r.Path, m.LineNumber, m.LineText)
			}
			continue
		}

		if i > 0 {
			cmd.Println("--")
		}
		forEachContextLine(r.Path, r.Matches, ctxLines, func(line int, text string, isMatch, gap bool) {
			if gap {
				cmd.Println("--")
			}
			if isMatch {
				cmd.Printf("%s:%d:%s\n", r.Path, line, text)
			} else {
				cmd.Printf("%s-%d-%s\n", r.Path, line, text)
			}
		})
	}
	return nil
}

// printMatches writes a file's match lines, indented, with optional
// surrounding context read back from the workspace.
func printMatches(cmd *cobra.Command, path string, matches []domain.LineMatch, ctxLines int) {
	if ctxLines <= 0 {
		for _, m := range matches {
			cmd.Printf("  %d: %s\n", m.LineNumber, m.LineText)
		}
		return
	}

	forEachContextLine(path, matches, ctxLines, func(line int, text string, isMatch, gap bool) {
		if gap {
			cmd.Println("  --")
		}
		marker := " "
		if isMatch {
			marker = ">"
		}
		cmd.Printf("  %s %d: %s\n", marker, line, text)
	})
}

// forEachContextLine visits every line in the union of context windows
// around the matches, in ascending order. gap is set when the previous
// visited line is not adjacent. Falls back to match lines only when the
// file cannot be read.
func forEachContextLine(path string, matches []domain.LineMatch, ctxLines int, visit func(line int, text string, isMatch, gap bool)) {
	lines, ok := readFileLines(path)
	if !ok {
		for i, m := range matches {
			visit(m.LineNumber, m.LineText, true, i > 0 && matches[i-1].LineNumber+1 < m.LineNumber)
		}
		return
	}

	isMatch := make(map[int]bool, len(matches))
	show := make(map[int]bool)
	for _, m := range matches {
		isMatch[m.LineNumber] = true
		for l := m.LineNumber - ctxLines; l <= m.LineNumber+ctxLines; l++ {
			if l >= 1 && l <= len(lines) {
				show[l] = true
			}
		}
	}

	nums := make([]int, 0, len(show))
	for l := range show {
		nums = append(nums, l)
	}
	sort.Ints(nums)

	prev := 0
	for _, l := range nums {
		visit(l, lines[l-1], isMatch[l], prev != 0 && l != prev+1)
		prev = l
	}
}

func readFileLines(path string) ([]string, bool) {
	if workspace == nil {
		return nil, false
	}
	content, err := workspace.ReadText(context.Background(), path)
	if err != nil {
		return nil, false
	}
	return strings.Split(content, "\n"), true
}

// resolveContextLines maps the --context flag onto the configured
// default when unset.
func resolveContextLines() int {
	if searchContext >= 0 {
		return searchContext
	}
	if settingsService == nil {
		return 0
	}
	settings, err := settingsService.Get()
	if err != nil {
		return 0
	}
	return settings.Search.ContextLines
}
