package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage workspace search history",
	Long: `List or clear recorded workspace searches.

Running without a subcommand lists the most recent searches.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded searches",
	RunE:  runHistoryClear,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records to show")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "output records as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	ctx := context.Background()

	records, err := historyStore.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No searches recorded.")
		return nil
	}

	cmd.Printf("Recent searches:\n\n")
	for i := range records {
		r := &records[i]
		cmd.Printf("  %q%s\n", r.Pattern, formatRecordFlags(r))
		cmd.Printf("    Matches:  %d in %d file(s)\n", r.MatchCount, r.FileCount)
		cmd.Printf("    Executed: %s\n", r.ExecutedAt.Format("2006-01-02 15:04"))
		cmd.Println()
	}

	cmd.Printf("Total: %d searches\n", len(records))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	ctx := context.Background()

	if err := historyStore.Prune(ctx, 0); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	cmd.Println("Search history cleared.")
	return nil
}

// formatRecordFlags renders a record's query options as a bracketed
// suffix, empty when all options are off.
func formatRecordFlags(r *domain.SearchRecord) string {
	var opts []string
	if r.CaseSensitive {
		opts = append(opts, "case-sensitive")
	}
	if r.WholeWord {
		opts = append(opts, "whole-word")
	}
	if r.UseRegex {
		opts = append(opts, "regex")
	}
	if len(opts) == 0 {
		return ""
	}
	return "  [" + strings.Join(opts, ", ") + "]"
}
