// Package editor provides the document editing view for the TUI. It
// hosts the document component and wires an annotation tracker, a
// find/replace session and an overlay positioner over the open file.
package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/components/input"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/components/status"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/keymap"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/messages"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
)

// annotationSuffix names the sidecar file holding a document's
// machine-authored annotations.
const annotationSuffix = ".marks.json"

// overlayTickInterval is how often the host drives overlay positioning.
const overlayTickInterval = 100 * time.Millisecond

// DocView is the host-side contract of the embedded document component:
// the core document port plus the bubbletea surface the editor drives.
type DocView interface {
	driven.DocumentView

	// Update forwards a bubbletea message to the component.
	Update(msg tea.Msg) tea.Cmd

	// View renders the component.
	View() string

	// Focus gives the component keyboard focus.
	Focus() tea.Cmd

	// Blur removes keyboard focus.
	Blur()

	// Focused reports whether the component has focus.
	Focused() bool

	// SetSize resizes the component, in terminal cells.
	SetSize(width, height int)

	// CursorOffset returns the byte offset of the cursor.
	CursorOffset() int

	// LineCount returns the number of lines in the document.
	LineCount() int
}

// Deps bundles the collaborators the editor needs. Tracker, search and
// overlay sessions live for one open document, so the editor receives
// factories and builds a fresh set per file.
type Deps struct {
	// Workspace reads and writes document files.
	Workspace driven.Workspace

	// NewDocView builds the host document component for a file's text.
	NewDocView func(text string) DocView

	// NewTracker builds an annotation tracker bound to a document view.
	NewTracker func(view driven.DocumentView) driving.AnnotationTracker

	// NewDocSearch builds a find/replace session bound to a document view.
	NewDocSearch func(view driven.DocumentView) driving.DocumentSearch

	// NewOverlay builds an overlay positioner bound to a document view
	// and its tracker.
	NewOverlay func(view driven.DocumentView, tracker driving.AnnotationTracker) driving.OverlayService
}

// focusArea identifies which component receives keystrokes.
type focusArea int

const (
	focusDoc focusArea = iota
	focusFind
	focusReplace
)

// overlayTick drives one overlay positioning pass.
type overlayTick struct{}

// View is the document editing view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	deps   Deps
	ctx    context.Context

	doc     DocView
	tracker driving.AnnotationTracker
	search  driving.DocumentSearch
	overlay driving.OverlayService

	findInput    *input.Field
	replaceInput *input.Field
	statusbar    *status.Bar

	path        string
	dirty       bool
	loading     bool
	findOpen    bool
	overlayOn   bool
	focus       focusArea
	hovered     string
	notice      string
	unsubscribe func()

	// Annotation ids touched by the edit being processed, collected
	// synchronously from the tracker callback.
	pendingEdited []string

	caseSensitive bool
	wholeWord     bool
	useRegex      bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new editor view.
func NewView(s *styles.Styles, km *keymap.KeyMap, deps Deps) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:       s,
		keymap:       km,
		deps:         deps,
		ctx:          context.Background(),
		findInput:    input.NewField(s, "Find", "Search in document..."),
		replaceInput: input.NewField(s, "Replace", "Replacement text..."),
		statusbar:    status.NewBar(s, km),
		width:        80,
		height:       24,
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

// OpenFile tears down any open document and starts loading the file.
func (v *View) OpenFile(path string) tea.Cmd {
	v.closeSessions()
	v.path = path
	v.loading = true
	v.err = nil
	v.notice = ""
	return func() tea.Msg {
		content, err := v.deps.Workspace.ReadText(v.ctx, path)
		return messages.FileOpened{Path: path, Content: content, Err: err}
	}
}

// Update handles messages for the editor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		view, cmd := v.handleKeyMsg(msg)
		view.refreshStatus()
		return view, cmd

	case tea.MouseMsg:
		cmd := v.handleMouse(msg)
		v.refreshStatus()
		return v, cmd

	case overlayTick:
		if v.overlayOn && v.overlay != nil {
			v.overlay.Tick()
			return v, v.overlayTickCmd()
		}
		return v, nil

	case messages.FileOpened:
		return v.handleFileOpened(msg)

	case messages.AnnotationsLoaded:
		// A missing sidecar is the common case, not an error.
		if msg.Err == nil && v.tracker != nil && len(msg.Annotations) > 0 {
			v.tracker.SetAnnotations(msg.Annotations)
			v.refreshStatus()
		}
		return v, nil

	case messages.FileSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.dirty = false
		v.notice = "saved " + msg.Path
		v.refreshStatus()
		return v, nil

	case messages.AnnotationEdited:
		v.notice = "machine text edited: " + shortID(msg.ID)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

// handleFileOpened installs the loaded document and its sessions.
func (v *View) handleFileOpened(msg messages.FileOpened) (*View, tea.Cmd) {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	v.err = nil
	v.path = msg.Path
	v.setupDocument(msg.Content)
	v.refreshStatus()
	return v, tea.Batch(v.doc.Focus(), v.loadAnnotationsCmd())
}

// setupDocument builds the document component and a fresh session set.
func (v *View) setupDocument(content string) {
	v.closeSessions()

	v.doc = v.deps.NewDocView(content)
	v.unsubscribe = v.doc.Subscribe(func(string, []domain.EditDelta) {
		v.dirty = true
	})

	v.tracker = v.deps.NewTracker(v.doc)
	v.tracker.OnAnnotationEdited(func(id string) {
		v.pendingEdited = append(v.pendingEdited, id)
	})

	v.search = v.deps.NewDocSearch(v.doc)
	v.overlay = v.deps.NewOverlay(v.doc, v.tracker)

	v.dirty = false
	v.focus = focusDoc
	v.hovered = ""
	v.notice = ""
	v.findInput.Reset()
	v.replaceInput.Reset()
	v.resize()
}

// closeSessions tears down the per-document sessions.
func (v *View) closeSessions() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	if v.search != nil {
		v.search.Close()
	}
	if v.overlay != nil {
		v.overlay.Stop()
		v.overlay.SetVisible(false)
	}
	if v.tracker != nil {
		v.tracker.Close()
	}
	v.doc = nil
	v.tracker = nil
	v.search = nil
	v.overlay = nil
	v.pendingEdited = nil
	v.findOpen = false
	v.overlayOn = false
	v.hovered = ""
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	// Bindings that work regardless of focus.
	switch {
	case keymap.Matches(keyStr, v.keymap.Save):
		return v, v.saveCmd()
	case keymap.Matches(keyStr, v.keymap.Find):
		if v.doc == nil {
			return v, nil
		}
		return v, v.openFind()
	case keymap.Matches(keyStr, v.keymap.ToggleOverlay):
		return v, v.toggleOverlay()
	case keymap.Matches(keyStr, v.keymap.Accept):
		v.acceptAtCursor()
		return v, nil
	}

	if v.findOpen {
		switch {
		case keymap.Matches(keyStr, v.keymap.NextMatch):
			v.search.FindNext()
			return v, nil
		case keymap.Matches(keyStr, v.keymap.PrevMatch):
			v.search.FindPrevious()
			return v, nil
		case keymap.Matches(keyStr, v.keymap.ReplaceOne):
			return v, v.replaceOne()
		case keymap.Matches(keyStr, v.keymap.ReplaceAll):
			return v, v.replaceAll()
		}
	}

	if msg.Type == tea.KeyEsc {
		if v.findOpen {
			return v, v.closeFind()
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewFiles}
		}
	}

	if v.focus == focusFind || v.focus == focusReplace {
		return v.handleFindKeys(msg)
	}
	return v.handleDocKeys(msg)
}

// handleDocKeys forwards keystrokes to the document component.
func (v *View) handleDocKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.doc == nil {
		return v, nil
	}
	cmd := v.doc.Update(msg)
	return v, tea.Batch(cmd, v.editedCmd())
}

// handleFindKeys processes keystrokes while the find bar has focus.
func (v *View) handleFindKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return v, v.cycleFindFocus()
	case "enter":
		if v.focus == focusReplace {
			return v, v.replaceOne()
		}
		v.search.FindNext()
		return v, nil
	case "alt+c":
		v.caseSensitive = !v.caseSensitive
		v.applyFind()
		return v, nil
	case "alt+w":
		v.wholeWord = !v.wholeWord
		v.applyFind()
		return v, nil
	case "alt+x":
		v.useRegex = !v.useRegex
		v.applyFind()
		return v, nil
	}

	// Both inputs feed the live query, so the session always holds the
	// current replacement text.
	var cmd tea.Cmd
	if v.focus == focusFind {
		v.findInput, cmd = v.findInput.Update(msg)
	} else {
		v.replaceInput, cmd = v.replaceInput.Update(msg)
	}
	v.applyFind()
	return v, cmd
}

// handleMouse hit-tests the pointer against overlay anchors. A left
// click on an anchored annotation accepts it.
func (v *View) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !v.overlayOn || v.overlay == nil {
		return nil
	}

	x := float64(msg.X)
	y := float64(msg.Y - v.docTop())
	id, ok := v.overlay.Hover(x, y)
	if !ok {
		v.hovered = ""
		return nil
	}
	v.hovered = id

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if err := v.tracker.Accept(id); err == nil {
			v.notice = "annotation accepted"
			v.hovered = ""
			v.overlay.Tick()
		}
	}
	return nil
}

// acceptAtCursor accepts the annotation whose range contains the cursor.
func (v *View) acceptAtCursor() {
	if v.tracker == nil || v.doc == nil {
		return
	}
	offset := v.doc.CursorOffset()
	for _, r := range v.tracker.Ranges() {
		if r.Contains(offset) {
			if err := v.tracker.Accept(r.AnnotationID); err == nil {
				v.notice = "annotation accepted"
				if v.overlayOn && v.overlay != nil {
					v.overlay.Tick()
				}
			}
			return
		}
	}
	v.notice = "no annotation at cursor"
}

// openFind opens the find bar and applies any existing query.
func (v *View) openFind() tea.Cmd {
	v.findOpen = true
	v.focus = focusFind
	v.doc.Blur()
	v.replaceInput.Blur()
	v.search.Open()
	v.applyFind()
	v.resize()
	return v.findInput.Focus()
}

// closeFind closes the find bar and returns focus to the document.
func (v *View) closeFind() tea.Cmd {
	v.findOpen = false
	v.focus = focusDoc
	v.findInput.Blur()
	v.replaceInput.Blur()
	if v.search != nil {
		v.search.Close()
	}
	v.resize()
	if v.doc != nil {
		return v.doc.Focus()
	}
	return nil
}

// cycleFindFocus switches between the find and replace inputs.
func (v *View) cycleFindFocus() tea.Cmd {
	if v.focus == focusFind {
		v.focus = focusReplace
		v.findInput.Blur()
		return v.replaceInput.Focus()
	}
	v.focus = focusFind
	v.replaceInput.Blur()
	return v.findInput.Focus()
}

// toggleOverlay shows or hides the annotation overlay and starts or
// stops the host-driven tick loop.
func (v *View) toggleOverlay() tea.Cmd {
	if v.overlay == nil {
		return nil
	}
	v.overlayOn = !v.overlayOn
	v.overlay.SetVisible(v.overlayOn)
	v.resize()
	if !v.overlayOn {
		v.hovered = ""
		return nil
	}
	v.overlay.Tick()
	return v.overlayTickCmd()
}

// overlayTickCmd schedules the next overlay positioning pass.
func (v *View) overlayTickCmd() tea.Cmd {
	return tea.Tick(overlayTickInterval, func(time.Time) tea.Msg {
		return overlayTick{}
	})
}

// applyFind re-applies the current find query against the document.
func (v *View) applyFind() {
	if v.search == nil || !v.findOpen {
		return
	}
	v.search.SetQuery(v.currentQuery())
}

// currentQuery assembles the query from the find bar state.
func (v *View) currentQuery() domain.SearchQuery {
	return domain.SearchQuery{
		Pattern:       v.findInput.Value(),
		CaseSensitive: v.caseSensitive,
		WholeWord:     v.wholeWord,
		UseRegex:      v.useRegex,
		Replacement:   v.replaceInput.Value(),
	}
}

// replaceOne replaces the active match. Editing the query resets the
// active match, so the first invocation after a query change selects a
// match and the next one replaces it.
func (v *View) replaceOne() tea.Cmd {
	if v.search == nil {
		return nil
	}
	if _, ok := v.search.ActiveMatch(); !ok {
		v.search.FindNext()
		return nil
	}
	v.search.ReplaceOne()
	return v.editedCmd()
}

// replaceAll replaces every match in the document.
func (v *View) replaceAll() tea.Cmd {
	if v.search == nil {
		return nil
	}
	count := v.search.MatchCount()
	v.search.ReplaceAll()
	if count > 0 {
		v.notice = fmt.Sprintf("replaced %d occurrence(s)", count)
	}
	return v.editedCmd()
}

// editedCmd reports the first annotation touched by the edit just
// processed, if any.
func (v *View) editedCmd() tea.Cmd {
	if len(v.pendingEdited) == 0 {
		return nil
	}
	id := v.pendingEdited[0]
	v.pendingEdited = nil
	return func() tea.Msg {
		return messages.AnnotationEdited{ID: id}
	}
}

// saveCmd writes the document back to the workspace.
func (v *View) saveCmd() tea.Cmd {
	if v.doc == nil || v.path == "" {
		return nil
	}
	path, text := v.path, v.doc.Text()
	return func() tea.Msg {
		err := v.deps.Workspace.WriteText(v.ctx, path, text)
		return messages.FileSaved{Path: path, Err: err}
	}
}

// loadAnnotationsCmd reads the document's sidecar annotation file.
func (v *View) loadAnnotationsCmd() tea.Cmd {
	path := v.path + annotationSuffix
	return func() tea.Msg {
		raw, err := v.deps.Workspace.ReadText(v.ctx, path)
		if err != nil {
			return messages.AnnotationsLoaded{Err: err}
		}
		annotations, err := parseAnnotations(raw)
		return messages.AnnotationsLoaded{Annotations: annotations, Err: err}
	}
}

// parseAnnotations decodes a sidecar annotation file: a JSON array of
// {"id", "text"} objects. Entries without an id are minted one.
func parseAnnotations(raw string) ([]domain.Annotation, error) {
	var entries []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("parse annotations: %w", err)
	}

	annotations := make([]domain.Annotation, 0, len(entries))
	for _, e := range entries {
		if e.Text == "" {
			continue
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		annotations = append(annotations, domain.Annotation{ID: id, Text: e.Text})
	}
	return annotations, nil
}

// refreshStatus mirrors the live session state into the status bar.
func (v *View) refreshStatus() {
	if v.err != nil {
		return
	}
	v.statusbar.SetState(status.StateEditing)
	v.statusbar.SetMessage(v.path)
	v.statusbar.SetDirty(v.dirty)
	if v.search != nil && v.findOpen {
		v.statusbar.SetMatchPosition(v.search.ActiveIndex(), v.search.MatchCount())
	} else {
		v.statusbar.SetMatchPosition(0, 0)
	}
	if v.tracker != nil {
		v.statusbar.SetAnnotationCount(len(v.tracker.Annotations()))
	} else {
		v.statusbar.SetAnnotationCount(0)
	}
}

// View renders the editor view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	title := "Edit"
	if v.path != "" {
		title = "Edit: " + v.path
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.findOpen {
		b.WriteString(v.renderFindBar())
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.doc != nil:
		b.WriteString(v.doc.View())
		b.WriteString("\n")
	default:
		b.WriteString(v.styles.Muted.Render("No document open"))
		b.WriteString("\n")
	}

	if v.overlayOn && v.overlay != nil {
		b.WriteString(v.renderAnchors())
	}

	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())

	return b.String()
}

// renderFindBar renders the find and replace inputs with match toggles.
func (v *View) renderFindBar() string {
	var b strings.Builder

	b.WriteString(v.findInput.View())
	b.WriteString("  ")
	b.WriteString(v.renderToggles())
	if v.search != nil && v.search.Err() != nil {
		b.WriteString("  ")
		b.WriteString(v.styles.Error.Render(v.search.Err().Error()))
	}
	b.WriteString("\n")
	b.WriteString(v.replaceInput.View())
	b.WriteString("\n\n")

	return b.String()
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

// renderAnchors renders the overlay anchor legend: one line per
// positioned annotation, the hovered one highlighted.
func (v *View) renderAnchors() string {
	anchors := v.overlay.Anchors()

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Annotations (%d)", len(anchors))))
	b.WriteString("\n")

	const maxShown = 3
	for i := 0; i < maxShown; i++ {
		if i < len(anchors) {
			a := anchors[i]
			line := fmt.Sprintf("  %s @ row %.0f", shortID(a.AnnotationID), a.Rect.Top)
			if i == maxShown-1 && len(anchors) > maxShown {
				line = fmt.Sprintf("  +%d more", len(anchors)-maxShown+1)
			}
			if a.AnnotationID == v.hovered {
				b.WriteString(v.styles.ActiveMatch.Render(line))
			} else {
				b.WriteString(v.styles.Annotation.Render(line))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String()
}

// shortID abbreviates an annotation id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// docTop returns the terminal row where the document surface starts.
// Mouse coordinates are translated by this amount before hit-testing.
func (v *View) docTop() int {
	if v.findOpen {
		return 5
	}
	return 2
}

// docHeight returns the rows available to the document component.
func (v *View) docHeight() int {
	reserved := v.docTop() + 3
	if v.overlayOn {
		reserved += 5
	}
	h := v.height - reserved
	if h < 3 {
		h = 3
	}
	return h
}

// resize pushes the current layout into the document component.
func (v *View) resize() {
	if v.doc != nil {
		v.doc.SetSize(v.width, v.docHeight())
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.findInput.SetWidth(width / 2)
	v.replaceInput.SetWidth(width / 2)
	v.statusbar.SetWidth(width)
	v.resize()
}

// Path returns the open file's path.
func (v *View) Path() string {
	return v.path
}

// Dirty reports whether the document has unsaved changes.
func (v *View) Dirty() bool {
	return v.dirty
}

// FindOpen reports whether the find bar is open.
func (v *View) FindOpen() bool {
	return v.findOpen
}

// OverlayVisible reports whether the annotation overlay is shown.
func (v *View) OverlayVisible() bool {
	return v.overlayOn
}

// Notice returns the transient notice line, if any.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset tears down the open document and clears view state.
func (v *View) Reset() {
	v.closeSessions()
	v.path = ""
	v.dirty = false
	v.loading = false
	v.err = nil
	v.notice = ""
	v.findInput.Reset()
	v.replaceInput.Reset()
	v.caseSensitive = false
	v.wholeWord = false
	v.useRegex = false
	v.statusbar.Clear()
}
