package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

var (
	replaceCase   bool
	replaceWord   bool
	replaceRegex  bool
	replaceDryRun bool
	replaceYes    bool
)

// stdinIsTerminal reports whether stdin is interactive, gating the
// confirmation prompt. Variable so tests can pin it.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var replaceCmd = &cobra.Command{
	Use:   "replace [pattern] [replacement]",
	Short: "Replace a pattern across the workspace",
	Long: `Scans the workspace, then rewrites every match of the pattern with
the replacement. Each file is rewritten in one atomic write; files that
fail to read or write are counted and skipped, never left half-done.

With --regex, capture group references ($1, $2, ...) in the replacement
are expanded. Use --dry-run to preview the affected files.`,
	Args: cobra.ExactArgs(2),
	RunE: runReplace,
}

func init() {
	replaceCmd.Flags().BoolVar(&replaceCase, "case-sensitive", false, "match case exactly")
	replaceCmd.Flags().BoolVarP(&replaceWord, "word", "w", false, "match whole words only")
	replaceCmd.Flags().BoolVarP(&replaceRegex, "regex", "e", false, "interpret the pattern as a regular expression")
	replaceCmd.Flags().BoolVar(&replaceDryRun, "dry-run", false, "show what would change without writing")
	replaceCmd.Flags().BoolVarP(&replaceYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(replaceCmd)
}

func runReplace(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	pattern, replacement := args[0], args[1]
	ctx := context.Background()

	q := domain.SearchQuery{
		Pattern:       pattern,
		CaseSensitive: replaceCase,
		WholeWord:     replaceWord,
		UseRegex:      replaceRegex,
		Replacement:   replacement,
	}
	results, err := searchService.RunSearch(ctx, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	total := 0
	for i := range results {
		total += results[i].MatchCount()
	}
	if total == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	for i := range results {
		cmd.Printf("  %s (%d)\n", results[i].Path, results[i].MatchCount())
	}
	cmd.Printf("%d match(es) in %d file(s)\n", total, len(results))

	if replaceDryRun {
		cmd.Println("Dry run: no files were changed.")
		return nil
	}

	if !replaceYes {
		ok, err := confirmReplace(cmd, total, len(results))
		if err != nil {
			return err
		}
		if !ok {
			cmd.Println("Aborted.")
			return nil
		}
	}

	report, err := searchService.ReplaceAll(ctx, replacement)
	if err != nil {
		return fmt.Errorf("replace failed: %w", err)
	}

	cmd.Println(report.Summary())
	return nil
}

// confirmReplace prompts on an interactive stdin. Non-interactive runs
// must pass --yes so scripts cannot rewrite a workspace by accident.
func confirmReplace(cmd *cobra.Command, matches, files int) (bool, error) {
	if !stdinIsTerminal() {
		return false, errors.New("refusing to replace without --yes on non-interactive input")
	}

	cmd.Printf("Replace %d match(es) in %d file(s)? [y/N]: ", matches, files)
	answer := readLine(bufio.NewReader(os.Stdin))
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
