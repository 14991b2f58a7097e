package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// tuiPorts holds the wired port set for the edit command.
var tuiPorts *tui.Ports

// editWatch is a flag for the edit command.
var editWatch bool

var editCmd = &cobra.Command{
	Use:   "edit [path]",
	Short: "Launch the interactive editor",
	Long: `Launch the interactive terminal interface for inkstone.

The interface combines workspace-wide search and replace, a file picker,
an annotated document editor, search history, and settings. With a path
argument the editor opens that file directly.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Search
  Esc      - Back / Cancel
  ctrl+f   - Search within the open document
  ctrl+s   - Save the open document
  q        - Quit (from the menu)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

// SetTUIPorts sets the wired port set used by the edit command.
func SetTUIPorts(ports *tui.Ports) {
	tuiPorts = ports
}

func init() {
	editCmd.Flags().BoolVar(&editWatch, "watch", false, "re-run the active search when workspace files change")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	// Panic recovery keeps the stack trace visible after the alt
	// screen is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if tuiPorts == nil {
		return errors.New("editor not configured")
	}

	app, err := tui.NewApp(tuiPorts)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())
	if len(args) == 1 {
		app.WithStartFile(args[0])
	}

	// The watcher is long-running, so it gets its own cancellation
	// tied to the program's lifetime.
	if editWatch && searchService != nil {
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()

		go func() {
			if err := searchService.WatchWorkspace(watchCtx); err != nil {
				if errors.Is(err, domain.ErrNotSupported) {
					fmt.Fprintln(os.Stderr, "watch not supported by this workspace")
					return
				}
				fmt.Fprintf(os.Stderr, "watch stopped: %v\n", err)
			}
		}()
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
