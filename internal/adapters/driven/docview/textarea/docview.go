// Package textarea adapts a bubbles textarea into the document view
// contract. Geometry is reported in terminal cells: one row is one unit
// tall, one display column one unit wide, with double-width runes
// measured via go-runewidth. Soft wrapping inside the textarea is a
// rendering concern and does not affect reported coordinates.
package textarea

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/textmatch"
)

// Ensure DocumentView implements the interface.
var _ driven.DocumentView = (*DocumentView)(nil)

// Default terminal dimensions before the host reports a size.
const (
	defaultCols = 80
	defaultRows = 24
)

type subscriber struct {
	id int
	fn func(oldText string, deltas []domain.EditDelta)
}

// DocumentView wraps a bubbles textarea as an editable document
// surface. The textarea owns key handling, cursor rendering and soft
// wrapping; this adapter adds byte-offset addressing, cell geometry and
// synchronous change notifications on top. Keystroke edits are diffed
// against the pre-edit text so observers receive the minimal replaced
// range.
type DocumentView struct {
	mu          sync.Mutex
	ta          textarea.Model
	selection   domain.Selection
	topRow      int
	rows        int
	cols        int
	subscribers []subscriber
	nextSubID   int
}

// New creates a view holding the given text, with the cursor at the
// start of the document.
func New(text string) *DocumentView {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	ta.Prompt = ""
	// Line numbers would shift rendered columns away from the cell
	// coordinates this adapter reports.
	ta.ShowLineNumbers = false
	ta.SetWidth(defaultCols)
	ta.SetHeight(defaultRows)
	ta.SetValue(text)
	moveToBegin(&ta)

	return &DocumentView{
		ta:   ta,
		rows: defaultRows,
		cols: defaultCols,
	}
}

// Text returns the current document text.
func (v *DocumentView) Text() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ta.Value()
}

// Selection returns the current selection.
func (v *DocumentView) Selection() domain.Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection
}

// Select moves the selection without changing the text and scrolls the
// selection end into view.
func (v *DocumentView) Select(from, to int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = domain.Selection{From: from, To: to}
	v.syncCursorLocked(to)
}

// Viewport returns the visible region in document cell coordinates.
func (v *DocumentView) Viewport() domain.Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return domain.Rect{
		Top:    float64(v.topRow),
		Left:   0,
		Bottom: float64(v.topRow + v.rows),
		Right:  float64(v.cols),
	}
}

// CoordsAt returns the cell rectangle of the glyph at the byte offset,
// or false when the offset is out of range or inside a multi-byte rune.
// The end-of-document offset addresses the caret cell past the last
// glyph.
func (v *DocumentView) CoordsAt(offset int) (domain.Rect, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	text := v.ta.Value()
	if offset < 0 || offset > len(text) {
		return domain.Rect{}, false
	}
	if offset < len(text) && !utf8.RuneStart(text[offset]) {
		return domain.Rect{}, false
	}

	row := strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	col := runewidth.StringWidth(text[lineStart:offset])

	w := 1
	if offset < len(text) {
		r, _ := utf8.DecodeRuneInString(text[offset:])
		if r != '\n' {
			if rw := runewidth.RuneWidth(r); rw > 1 {
				w = rw
			}
		}
	}

	return domain.Rect{
		Top:    float64(row),
		Left:   float64(col),
		Bottom: float64(row + 1),
		Right:  float64(col + w),
	}, true
}

// ApplyEdit replaces the byte range [from, to) with the insert text,
// moves the cursor to the selection end, and scrolls it into view.
// Change notifications fire synchronously, with the pre-edit text and
// the replaced range, before ApplyEdit returns.
func (v *DocumentView) ApplyEdit(from, to int, insert string, sel domain.Selection) error {
	v.mu.Lock()
	oldText := v.ta.Value()
	if from < 0 || to < from || to > len(oldText) {
		v.mu.Unlock()
		return fmt.Errorf("edit range [%d,%d) out of bounds: %w", from, to, domain.ErrInvalidInput)
	}
	v.ta.SetValue(oldText[:from] + insert + oldText[to:])
	v.selection = sel
	v.syncCursorLocked(sel.To)
	subs := v.snapshotSubscribersLocked()
	v.mu.Unlock()

	deltas := []domain.EditDelta{{FromOld: from, ToOld: to}}
	for _, s := range subs {
		s.fn(oldText, deltas)
	}
	return nil
}

// Subscribe registers a change observer and returns its unsubscribe
// function. Observers are notified in subscription order.
func (v *DocumentView) Subscribe(fn func(oldText string, deltas []domain.EditDelta)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextSubID++
	id := v.nextSubID
	v.subscribers = append(v.subscribers, subscriber{id: id, fn: fn})

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, s := range v.subscribers {
			if s.id == id {
				v.subscribers = append(v.subscribers[:i], v.subscribers[i+1:]...)
				return
			}
		}
	}
}

// ==================== Host bridge ====================

// Update forwards a bubbletea message to the textarea. When the
// keystroke changed the text, the minimal replaced range is diffed out
// and observers are notified synchronously before Update returns.
func (v *DocumentView) Update(msg tea.Msg) tea.Cmd {
	v.mu.Lock()
	oldText := v.ta.Value()
	var cmd tea.Cmd
	v.ta, cmd = v.ta.Update(msg)
	newText := v.ta.Value()
	v.followCursorLocked()

	var subs []subscriber
	delta, changed := textmatch.DiffRange(oldText, newText)
	if changed {
		subs = v.snapshotSubscribersLocked()
	}
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(oldText, []domain.EditDelta{delta})
	}
	return cmd
}

// View renders the textarea.
func (v *DocumentView) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ta.View()
}

// Focus focuses the textarea so it receives keystrokes.
func (v *DocumentView) Focus() tea.Cmd {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ta.Focus()
}

// Blur releases keyboard focus.
func (v *DocumentView) Blur() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ta.Blur()
}

// Focused reports whether the textarea has keyboard focus.
func (v *DocumentView) Focused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ta.Focused()
}

// SetSize resizes the textarea to the given terminal cell dimensions
// and keeps the cursor row visible.
func (v *DocumentView) SetSize(cols, rows int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if cols > 0 {
		v.cols = cols
		v.ta.SetWidth(cols)
	}
	if rows > 0 {
		v.rows = rows
		v.ta.SetHeight(rows)
	}
	v.followCursorLocked()
}

// CursorOffset returns the byte offset of the cursor.
func (v *DocumentView) CursorOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	li := v.ta.LineInfo()
	return v.offsetAtLocked(v.ta.Line(), li.StartColumn+li.ColumnOffset)
}

// LineCount returns the number of hard lines in the document.
func (v *DocumentView) LineCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ta.LineCount()
}

// ==================== Cursor bookkeeping ====================

// syncCursorLocked moves the textarea cursor to the byte offset and
// scrolls its row into view. Callers must hold the lock.
func (v *DocumentView) syncCursorLocked(offset int) {
	text := v.ta.Value()
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	row := strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	col := utf8.RuneCountInString(text[lineStart:offset])

	moveToBegin(&v.ta)
	for i := 0; i < row; i++ {
		v.ta.CursorDown()
	}
	v.ta.SetCursor(col)
	v.scrollToRowLocked(row)
}

// followCursorLocked keeps the viewport tracking the textarea's own
// cursor row after key-driven movement. Callers must hold the lock.
func (v *DocumentView) followCursorLocked() {
	v.scrollToRowLocked(v.ta.Line())
}

// scrollToRowLocked shifts the viewport the minimal amount that brings
// the row into view. Callers must hold the lock.
func (v *DocumentView) scrollToRowLocked(row int) {
	if row < v.topRow {
		v.topRow = row
	}
	if v.rows > 0 && row >= v.topRow+v.rows {
		v.topRow = row - v.rows + 1
	}
}

// moveToBegin moves the cursor to the start of the document through the
// exported cursor API; bubbles keeps its own moveToBegin unexported.
// CursorUp strictly moves up one display line per call, so the loop
// terminates, and CursorStart lands the cursor at row 0, column 0.
func moveToBegin(ta *textarea.Model) {
	for ta.Line() > 0 {
		ta.CursorUp()
	}
	ta.CursorStart()
}

// offsetAtLocked returns the byte offset of the rune column within the
// hard line at row. Out-of-range positions clamp to the nearest valid
// offset. Callers must hold the lock.
func (v *DocumentView) offsetAtLocked(row, runeCol int) int {
	text := v.ta.Value()
	offset := 0
	for row > 0 {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			break
		}
		offset += nl + 1
		row--
	}
	for runeCol > 0 && offset < len(text) {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		offset += size
		runeCol--
	}
	return offset
}

func (v *DocumentView) snapshotSubscribersLocked() []subscriber {
	subs := make([]subscriber, len(v.subscribers))
	copy(subs, v.subscribers)
	return subs
}
