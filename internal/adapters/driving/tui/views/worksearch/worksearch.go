// Package worksearch provides the workspace search and replace view
// for the TUI.
package worksearch

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/components/input"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/components/list"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/components/status"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/keymap"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/messages"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
)

// focusArea identifies which component receives keystrokes.
type focusArea int

const (
	focusQuery focusArea = iota
	focusReplace
	focusResults
)

// ReplaceConfirm is the confirmation overlay shown before a workspace
// replace-all.
type ReplaceConfirm struct {
	actions  []string
	selected int
	visible  bool
	matches  int
	files    int
}

// View is the workspace search and replace view: a query input with
// match toggles, a replacement input, and a collapsible per-file
// results list.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	query     *input.Field
	replace   *input.Field
	list      *list.ResultList
	statusbar *status.Bar

	search driving.WorkspaceSearch
	ctx    context.Context

	// scans carries each authoritative scan completion, latest wins.
	scans chan []domain.FileResult

	width   int
	height  int
	ready   bool
	err     error
	focus   focusArea
	notice  string
	confirm *ReplaceConfirm

	caseSensitive bool
	wholeWord     bool
	useRegex      bool

	// applied is the last query handed to the session, so replacement
	// edits do not trigger rescans.
	applied domain.SearchQuery
}

// NewView creates a new workspace search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, search driving.WorkspaceSearch) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		query:     input.NewField(s, "Query", "Search the workspace..."),
		replace:   input.NewField(s, "Replace", "Replacement text..."),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		search:    search,
		ctx:       context.Background(),
		scans:     make(chan []domain.FileResult, 1),
		width:     80,
		height:    24,
		focus:     focusQuery,
	}
	v.query.Focus()

	if search != nil {
		search.OnComplete(v.pushResults)
	}
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and arms the scan listener.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.query.Init(), v.awaitScan())
}

// Update handles messages for the workspace search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ScanDelivered:
		v.handleScanDone(msg.Results, nil)
		return v, v.awaitScan()

	case messages.SearchCompleted:
		v.handleScanDone(msg.Results, msg.Err)
		return v, nil

	case messages.ReplaceCompleted:
		return v.handleReplaceCompleted(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirm != nil && v.confirm.visible {
		return v.handleConfirmKey(msg)
	}

	keyStr := msg.String()
	if keymap.Matches(keyStr, v.keymap.ReplaceAll) {
		v.openConfirm()
		return v, nil
	}

	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focus == focusResults {
		return v.handleResultsKey(msg)
	}
	return v.handleInputKey(msg)
}

// handleInputKey processes keystrokes while an input holds focus.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return v, v.cycleInputFocus()
	case "enter":
		if v.currentQuery().IsEmpty() {
			return v, nil
		}
		v.focusResults()
		v.statusbar.SetState(status.StateSearching)
		return v, v.performScan()
	case "alt+c":
		v.caseSensitive = !v.caseSensitive
		v.applyLive()
		return v, nil
	case "alt+w":
		v.wholeWord = !v.wholeWord
		v.applyLive()
		return v, nil
	case "alt+x":
		v.useRegex = !v.useRegex
		v.applyLive()
		return v, nil
	}

	var cmd tea.Cmd
	if v.focus == focusQuery {
		v.query, cmd = v.query.Update(msg)
	} else {
		v.replace, cmd = v.replace.Update(msg)
	}
	v.applyLive()
	return v, cmd
}

// handleResultsKey processes keystrokes while the results list holds
// focus.
func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if file := v.list.SelectedFile(); file != nil {
			path := file.Path
			return v, func() tea.Msg {
				return messages.FileSelected{Path: path}
			}
		}
		return v, nil
	}

	if msg.String() == "n" {
		// New search: return focus to the query input.
		v.focus = focusQuery
		v.query.Focus()
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// handleConfirmKey processes keyboard input while the replace
// confirmation overlay is visible.
func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		if v.confirm.selected > 0 {
			v.confirm.selected--
		}
		return v, nil
	case tea.KeyDown:
		if v.confirm.selected < len(v.confirm.actions)-1 {
			v.confirm.selected++
		}
		return v, nil
	case tea.KeyEnter:
		action := v.confirm.actions[v.confirm.selected]
		v.confirm = nil
		if action == "Replace all" {
			v.statusbar.SetState(status.StateSearching)
			v.statusbar.SetMessage("Replacing...")
			return v, v.performReplaceAll()
		}
		return v, nil
	case tea.KeyEsc:
		v.confirm = nil
		return v, nil
	default:
	}

	switch msg.String() {
	case "k":
		if v.confirm.selected > 0 {
			v.confirm.selected--
		}
	case "j":
		if v.confirm.selected < len(v.confirm.actions)-1 {
			v.confirm.selected++
		}
	}
	return v, nil
}

// openConfirm shows the replace confirmation overlay when there is
// something to replace.
func (v *View) openConfirm() {
	if v.currentQuery().IsEmpty() || v.list.IsEmpty() {
		return
	}
	v.confirm = &ReplaceConfirm{
		actions:  []string{"Replace all", "Cancel"},
		selected: 0,
		visible:  true,
		matches:  v.list.TotalMatches(),
		files:    v.list.Count(),
	}
}

// focusResults moves keyboard focus to the results list.
func (v *View) focusResults() {
	v.focus = focusResults
	v.query.Blur()
	v.replace.Blur()
}

// cycleInputFocus switches between the query and replace inputs.
func (v *View) cycleInputFocus() tea.Cmd {
	if v.focus == focusQuery {
		v.focus = focusReplace
		v.query.Blur()
		return v.replace.Focus()
	}
	v.focus = focusQuery
	v.replace.Blur()
	return v.query.Focus()
}

// applyLive hands the current query to the session's debounced scan
// path. Edits that only change the replacement text are skipped, since
// they cannot change the match set.
func (v *View) applyLive() {
	if v.search == nil {
		return
	}
	q := v.currentQuery()
	if q.Pattern == v.applied.Pattern &&
		q.CaseSensitive == v.applied.CaseSensitive &&
		q.WholeWord == v.applied.WholeWord &&
		q.UseRegex == v.applied.UseRegex {
		return
	}
	v.applied = q
	v.notice = ""
	v.search.SetQuery(q)
	v.err = v.search.LastError()
	if v.err == nil && !q.IsEmpty() {
		v.statusbar.SetState(status.StateSearching)
	}
}

// currentQuery assembles the query from the input state.
func (v *View) currentQuery() domain.SearchQuery {
	return domain.SearchQuery{
		Pattern:       v.query.Value(),
		CaseSensitive: v.caseSensitive,
		WholeWord:     v.wholeWord,
		UseRegex:      v.useRegex,
		Replacement:   v.replace.Value(),
	}
}

// performScan runs an immediate scan, bypassing the debounce.
func (v *View) performScan() tea.Cmd {
	q := v.currentQuery()
	return func() tea.Msg {
		results, err := v.search.RunSearch(v.ctx, q)
		return messages.SearchCompleted{Results: results, Err: err}
	}
}

// performReplaceAll replaces across every file in the current results.
func (v *View) performReplaceAll() tea.Cmd {
	replacement := v.replace.Value()
	return func() tea.Msg {
		report, err := v.search.ReplaceAll(v.ctx, replacement)
		return messages.ReplaceCompleted{Report: report, Err: err}
	}
}

// pushResults hands a completed scan to the update loop. The channel
// holds one pending result set; a newer completion replaces an
// unconsumed older one.
func (v *View) pushResults(results []domain.FileResult) {
	for {
		select {
		case v.scans <- results:
			return
		default:
			select {
			case <-v.scans:
			default:
			}
		}
	}
}

// awaitScan blocks until the next authoritative scan completion.
func (v *View) awaitScan() tea.Cmd {
	return func() tea.Msg {
		results, ok := <-v.scans
		if !ok {
			return nil
		}
		return messages.ScanDelivered{Results: results}
	}
}

// handleScanDone installs a completed scan's results.
func (v *View) handleScanDone(results []domain.FileResult, err error) {
	if err != nil {
		v.err = err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		return
	}

	v.err = nil
	v.list.SetResults(results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCounts(v.list.TotalMatches(), v.list.Count())
}

// handleReplaceCompleted reports the replace outcome and rescans so the
// results reflect the rewritten workspace.
func (v *View) handleReplaceCompleted(msg messages.ReplaceCompleted) (*View, tea.Cmd) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	v.notice = msg.Report.Summary()
	v.list.SetResults(nil)
	if v.search != nil {
		v.applied = v.currentQuery()
		v.search.SetQuery(v.applied)
	}
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
	return v, nil
}

// View renders the workspace search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	header := v.styles.Title.Render("Search Workspace")
	sections = append(sections, header, "")

	queryLine := v.query.View() + "  " + v.renderToggles()
	sections = append(sections, queryLine)
	sections = append(sections, v.replace.View(), "")

	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	sections = append(sections, v.list.View())

	if v.confirm != nil && v.confirm.visible {
		sections = append(sections, "", v.renderConfirm())
	}

	if v.notice != "" {
		sections = append(sections, "", v.styles.Success.Render(v.notice))
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderToggles renders the case, whole-word and regex indicators.
func (v *View) renderToggles() string {
	toggle := func(on bool, label string) string {
		if on {
			return v.styles.Selected.Render("[" + label + "]")
		}
		return v.styles.Muted.Render("[" + label + "]")
	}
	return toggle(v.caseSensitive, "Aa") + " " +
		toggle(v.wholeWord, "W") + " " +
		toggle(v.useRegex, ".*")
}

// renderConfirm renders the replace confirmation overlay.
func (v *View) renderConfirm() string {
	if v.confirm == nil {
		return ""
	}

	question := fmt.Sprintf("Replace %d match(es) in %d file(s) with %q?",
		v.confirm.matches, v.confirm.files, v.replace.Value())

	lines := make([]string, 0, len(v.confirm.actions)+2)
	lines = append(lines, v.styles.Normal.Render(question), "")
	for i, action := range v.confirm.actions {
		indicator := "  "
		if i == v.confirm.selected {
			indicator = "> "
		}

		if i == v.confirm.selected {
			lines = append(lines, v.styles.Selected.Render(indicator+action))
		} else {
			lines = append(lines, v.styles.Normal.Render(indicator+action))
		}
	}

	content := strings.Join(lines, "\n")
	menuStyle := v.styles.Border.
		Padding(0, 1)
	return menuStyle.Render(content)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.query.SetWidth(width / 2)
	v.replace.SetWidth(width / 2)
	// Reserve space for the header, inputs and status bar.
	v.list.SetDimensions(width, height-12)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.query.Value()
}

// SetRecord restores the query state from a history record and applies
// it, so re-running a past search is one call.
func (v *View) SetRecord(rec domain.SearchRecord) {
	v.query.SetValue(rec.Pattern)
	v.caseSensitive = rec.CaseSensitive
	v.wholeWord = rec.WholeWord
	v.useRegex = rec.UseRegex
	v.focus = focusQuery
	v.query.Focus()
	v.replace.Blur()
	v.applyLive()
}

// Results returns the current results.
func (v *View) Results() []domain.FileResult {
	return v.list.Results()
}

// SelectedFile returns the file under the selection, if any.
func (v *View) SelectedFile() *domain.FileResult {
	return v.list.SelectedFile()
}

// InputFocused returns whether an input has focus.
func (v *View) InputFocused() bool {
	return v.focus == focusQuery || v.focus == focusReplace
}

// Notice returns the transient notice line, if any.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to an empty query in input mode.
func (v *View) Reset() {
	if v.search != nil {
		v.search.Stop()
	}
	v.focus = focusQuery
	v.query.Focus()
	v.query.SetValue("")
	v.replace.Blur()
	v.replace.SetValue("")
	v.list.SetResults(nil)
	v.caseSensitive = false
	v.wholeWord = false
	v.useRegex = false
	v.applied = domain.SearchQuery{}
	v.err = nil
	v.notice = ""
	v.confirm = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}
