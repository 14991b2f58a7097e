// Package files provides the workspace file picker view for the TUI.
package files

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/components/input"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/messages"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
)

// View is the workspace file picker: a scrollable path list with a
// fuzzy filter.
type View struct {
	styles    *styles.Styles
	workspace driven.Workspace
	ctx       context.Context

	filter   *input.Field
	paths    []string
	filtered []string

	selected     int
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	filtering    bool
}

// NewView creates a new file picker view.
func NewView(s *styles.Styles, workspace driven.Workspace) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:    s,
		workspace: workspace,
		ctx:       context.Background(),
		filter:    input.NewField(s, "Filter", "Fuzzy match paths..."),
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

// Load starts listing the workspace's text files.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.err = nil
	return func() tea.Msg {
		if v.workspace == nil {
			return messages.FilesLoaded{Err: fmt.Errorf("workspace not available")}
		}
		paths, err := v.workspace.ListTextFiles(v.ctx)
		return messages.FilesLoaded{Paths: paths, Err: err}
	}
}

// Update handles messages for the file picker view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.filtering {
			return v.handleFilterKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.FilesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.paths = msg.Paths
			v.err = nil
			v.applyFilter()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.filtered)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if path := v.SelectedPath(); path != "" {
			return v, func() tea.Msg {
				return messages.FileSelected{Path: path}
			}
		}
	case "/":
		v.filtering = true
		return v, v.filter.Focus()
	case "r":
		return v, v.Load()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// handleFilterKeyMsg handles key presses while the filter input has
// focus.
func (v *View) handleFilterKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		v.filtering = false
		v.filter.Blur()
		return v, nil
	default:
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.applyFilter()
	return v, cmd
}

// applyFilter narrows the path list to fuzzy matches of the filter text.
func (v *View) applyFilter() {
	term := v.filter.Value()
	if term == "" {
		v.filtered = v.paths
	} else {
		filtered := make([]string, 0, len(v.paths))
		for _, path := range v.paths {
			if fuzzy.MatchFold(term, path) {
				filtered = append(filtered, path)
			}
		}
		v.filtered = filtered
	}

	if v.selected >= len(v.filtered) {
		v.selected = len(v.filtered) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	v.scrollOffset = 0
	v.adjustScroll()
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
	// Reserve lines for the title, filter, scroll indicator and help.
	reserved := 9
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the file picker view.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Open File (%d)", len(v.filtered))
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.filtering || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Listing files..."))
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

	if len(v.filtered) == 0 {
		b.WriteString(v.styles.Muted.Render("No text files found."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.filtered) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderPath(i))
		b.WriteString("\n")
	}

	if len(v.filtered) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.filtered)),
			len(v.filtered))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderPath renders a single path row.
func (v *View) renderPath(index int) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	path := v.filtered[index]
	maxPathLen := v.width - 4
	if maxPathLen < 10 {
		maxPathLen = 10
	}
	if len(path) > maxPathLen {
		path = "..." + path[len(path)-maxPathLen+3:]
	}

	if index == v.selected {
		return v.styles.Selected.Render(indicator + path)
	}
	return v.styles.Normal.Render(indicator) + v.styles.Normal.Render(path)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] open  [/] filter  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.filter.SetWidth(width / 2)
}

// Paths returns every listed path.
func (v *View) Paths() []string {
	return v.paths
}

// Filtered returns the paths passing the current filter.
func (v *View) Filtered() []string {
	return v.filtered
}

// SelectedPath returns the path under the selection, or empty when the
// list is empty.
func (v *View) SelectedPath() string {
	if v.selected < len(v.filtered) {
		return v.filtered[v.selected]
	}
	return ""
}

// IsFiltering returns whether the filter input has focus.
func (v *View) IsFiltering() bool {
	return v.filtering
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset clears the filter and selection.
func (v *View) Reset() {
	v.filter.SetValue("")
	v.filter.Blur()
	v.filtering = false
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
	v.applyFilter()
}
