// Package history provides the search history view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/messages"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
)

// historyLimit caps how many records the view lists.
const historyLimit = 50

// View lists past workspace searches and lets the user run one again.
type View struct {
	styles *styles.Styles
	store  driven.HistoryStore
	ctx    context.Context

	records []domain.SearchRecord

	selected     int
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, store driven.HistoryStore) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		store:  store,
		ctx:    context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load starts fetching the recent search records.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.err = nil
	return func() tea.Msg {
		if v.store == nil {
			return messages.HistoryLoaded{Err: fmt.Errorf("history not available")}
		}
		records, err := v.store.Recent(v.ctx, historyLimit)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.records = msg.Records
			v.err = nil
			if v.selected >= len(v.records) {
				v.selected = 0
				v.scrollOffset = 0
			}
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.records)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if rec, ok := v.SelectedRecord(); ok {
			return v, func() tea.Msg {
				return messages.HistorySelected{Record: rec}
			}
		}
	case "c":
		return v, v.clear()
	case "r":
		return v, v.Load()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// clear removes every stored record, then reloads.
func (v *View) clear() tea.Cmd {
	if v.store == nil {
		return nil
	}
	v.loading = true
	return func() tea.Msg {
		if err := v.store.Prune(v.ctx, 0); err != nil {
			return messages.HistoryLoaded{Err: err}
		}
		records, err := v.store.Recent(v.ctx, historyLimit)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// adjustScroll keeps the selected row visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount returns the number of rows the list can display.
func (v *View) visibleItemCount() int {
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Search History (%d)", len(v.records))
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading history..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.records) == 0 {
		b.WriteString(v.styles.Muted.Render("No past searches."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.records) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderRecord(i))
		b.WriteString("\n")
	}

	if len(v.records) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.records)),
			len(v.records))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderRecord renders a single history row.
func (v *View) renderRecord(index int) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	rec := v.records[index]

	pattern := fmt.Sprintf("%q", rec.Pattern)
	if flags := renderFlags(rec); flags != "" {
		pattern += " " + flags
	}

	maxPatternLen := v.width/2 - 4
	if maxPatternLen < 10 {
		maxPatternLen = 10
	}
	if len(pattern) > maxPatternLen {
		pattern = pattern[:maxPatternLen-3] + "..."
	}

	detail := fmt.Sprintf("%d matches in %d files  %s",
		rec.MatchCount, rec.FileCount, rec.ExecutedAt.Format("2006-01-02 15:04"))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxPatternLen, pattern, detail))
	}

	return v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxPatternLen, pattern)) +
		v.styles.Muted.Render(detail)
}

// renderFlags renders the query options as a compact tag.
func renderFlags(rec domain.SearchRecord) string {
	var flags []string
	if rec.CaseSensitive {
		flags = append(flags, "Aa")
	}
	if rec.WholeWord {
		flags = append(flags, "W")
	}
	if rec.UseRegex {
		flags = append(flags, ".*")
	}
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, " ") + "]"
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] search again  [c] clear  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Records returns the loaded records.
func (v *View) Records() []domain.SearchRecord {
	return v.records
}

// SelectedRecord returns the record under the selection.
func (v *View) SelectedRecord() (domain.SearchRecord, bool) {
	if v.selected < len(v.records) {
		return v.records[v.selected], true
	}
	return domain.SearchRecord{}, false
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset clears the selection.
func (v *View) Reset() {
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
}
