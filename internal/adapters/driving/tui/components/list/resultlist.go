// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// rowRef addresses one visible row in the flattened result tree.
// match is -1 for a file header row.
type rowRef struct {
	file  int
	match int
}

// ResultList displays workspace search results as a navigable tree of
// files and their matches. Collapsed files show only their header row.
type ResultList struct {
	results  []domain.FileResult
	rows     []rowRef
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		results:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		case tea.KeyTab:
			r.ToggleCollapse()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render("No matches")
	}

	lines := make([]string, 0, len(r.rows)+2)

	// Header
	header := r.styles.Subtitle.Render(
		fmt.Sprintf("%d matches in %d files", r.TotalMatches(), len(r.results)),
	)
	lines = append(lines, header, "")

	// Calculate visible range based on height
	visibleCount := r.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.rows) {
		end = len(r.rows)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i))
	}

	return strings.Join(lines, "\n")
}

// renderRow formats a single visible row.
func (r *ResultList) renderRow(index int) string {
	ref := r.rows[index]

	// Indicator for selected item
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	if ref.match < 0 {
		return r.renderFileRow(index, indicator, &r.results[ref.file])
	}
	return r.renderMatchRow(index, indicator, &r.results[ref.file].Matches[ref.match])
}

// renderFileRow formats a file header row with its match count.
func (r *ResultList) renderFileRow(index int, indicator string, file *domain.FileResult) string {
	marker := "▾ "
	if file.Collapsed {
		marker = "▸ "
	}

	path := file.Path
	maxPathLen := r.width - 16
	if maxPathLen < 10 {
		maxPathLen = 10
	}
	if len(path) > maxPathLen {
		path = "..." + path[len(path)-maxPathLen+3:]
	}

	text := fmt.Sprintf("%s%s%s (%d)", indicator, marker, path, file.MatchCount())
	if index == r.selected {
		return r.styles.Selected.Render(text)
	}
	return r.styles.Normal.Render(text)
}

// renderMatchRow formats a single match line with its line number and
// the matched segment highlighted.
func (r *ResultList) renderMatchRow(index int, indicator string, m *domain.LineMatch) string {
	gutter := fmt.Sprintf("%s  %4d: ", indicator, m.LineNumber)

	text := m.LineText
	start, end := m.MatchStart, m.MatchEnd
	if start < 0 || end > len(text) || start > end {
		start, end = 0, 0
	}

	maxTextLen := r.width - len(gutter) - 2
	if maxTextLen < 20 {
		maxTextLen = 20
	}

	prefix := text[:start]
	mid := text[start:end]
	suffix := text[end:]

	// Keep the match visible: trim the prefix from the left first,
	// then cut the suffix to fit.
	if len(prefix)+len(mid) > maxTextLen {
		keep := maxTextLen - len(mid) - 3
		if keep < 0 {
			keep = 0
		}
		prefix = "..." + prefix[len(prefix)-keep:]
	}
	remaining := maxTextLen - len(prefix) - len(mid)
	if len(suffix) > remaining {
		if remaining < 3 {
			suffix = ""
		} else {
			suffix = suffix[:remaining-3] + "..."
		}
	}

	if index == r.selected {
		return r.styles.Selected.Render(gutter + prefix + mid + suffix)
	}
	return r.styles.Muted.Render(gutter+prefix) +
		r.styles.Match.Render(mid) +
		r.styles.Muted.Render(suffix)
}

// SetResults updates the result list and resets the selection.
func (r *ResultList) SetResults(results []domain.FileResult) {
	r.results = results
	r.selected = 0
	r.rebuildRows()
}

// rebuildRows flattens the file tree into visible rows, skipping the
// matches of collapsed files.
func (r *ResultList) rebuildRows() {
	rows := make([]rowRef, 0, len(r.results))
	for i := range r.results {
		rows = append(rows, rowRef{file: i, match: -1})
		if r.results[i].Collapsed {
			continue
		}
		for j := range r.results[i].Matches {
			rows = append(rows, rowRef{file: i, match: j})
		}
	}
	r.rows = rows
	if r.selected >= len(r.rows) {
		r.selected = len(r.rows) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// Results returns the current results.
func (r *ResultList) Results() []domain.FileResult {
	return r.results
}

// Selected returns the index of the selected row.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected row index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.rows) {
		r.selected = index
	}
}

// SelectedFile returns the file the selected row belongs to, or nil
// if the list is empty.
func (r *ResultList) SelectedFile() *domain.FileResult {
	if len(r.rows) == 0 || r.selected < 0 || r.selected >= len(r.rows) {
		return nil
	}
	return &r.results[r.rows[r.selected].file]
}

// SelectedMatch returns the selected match row, or nil when a file
// header row is selected.
func (r *ResultList) SelectedMatch() *domain.LineMatch {
	if len(r.rows) == 0 || r.selected < 0 || r.selected >= len(r.rows) {
		return nil
	}
	ref := r.rows[r.selected]
	if ref.match < 0 {
		return nil
	}
	return &r.results[ref.file].Matches[ref.match]
}

// ToggleCollapse folds or unfolds the file the selected row belongs
// to, moving the selection to that file's header row.
func (r *ResultList) ToggleCollapse() {
	if len(r.rows) == 0 {
		return
	}
	ref := r.rows[r.selected]
	r.results[ref.file].Collapsed = !r.results[ref.file].Collapsed
	r.rebuildRows()
	for i, row := range r.rows {
		if row.file == ref.file && row.match < 0 {
			r.selected = i
			break
		}
	}
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of files in the list.
func (r *ResultList) Count() int {
	return len(r.results)
}

// TotalMatches returns the number of match occurrences across all files.
func (r *ResultList) TotalMatches() int {
	total := 0
	for i := range r.results {
		total += r.results[i].MatchCount()
	}
	return total
}

// RowCount returns the number of visible rows.
func (r *ResultList) RowCount() int {
	return len(r.rows)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
