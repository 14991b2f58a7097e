package memory

import (
	"fmt"
	"sync"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
)

// Ensure DocumentView implements the interface.
var _ driven.DocumentView = (*DocumentView)(nil)

// Cell metrics for the simulated layout. Every rune occupies one
// fixed-size cell on a character grid.
const (
	cellWidth  = 8.0
	lineHeight = 16.0
)

type subscriber struct {
	id int
	fn func(oldText string, deltas []domain.EditDelta)
}

// DocumentView is an in-memory implementation of driven.DocumentView
// for tests and headless use. Geometry is simulated on a character
// grid, so coordinate assertions stay exact: line n starts at
// y = n*16, column m at x = m*8.
type DocumentView struct {
	mu          sync.RWMutex
	text        string
	selection   domain.Selection
	viewport    domain.Rect
	subscribers []subscriber
	nextSubID   int
}

// NewDocumentView creates a view holding the given text, with a
// default viewport anchored at the document origin.
func NewDocumentView(text string) *DocumentView {
	return &DocumentView{
		text:     text,
		viewport: domain.Rect{Top: 0, Left: 0, Bottom: 320, Right: 640},
	}
}

// Text returns the current document text.
func (v *DocumentView) Text() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.text
}

// SetText replaces the document content without firing change
// notifications. Intended for test setup; edits go through ApplyEdit.
func (v *DocumentView) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = text
	v.selection = domain.Selection{}
}

// Selection returns the current selection.
func (v *DocumentView) Selection() domain.Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selection
}

// Select sets the current selection.
func (v *DocumentView) Select(from, to int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = domain.Selection{From: from, To: to}
}

// Viewport returns the visible region in document coordinates.
func (v *DocumentView) Viewport() domain.Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.viewport
}

// SetViewport moves the visible region, simulating a scroll.
func (v *DocumentView) SetViewport(r domain.Rect) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport = r
}

// CoordsAt returns the screen rectangle of the character at the byte
// offset, or false when the offset is out of range or inside a
// multi-byte rune.
func (v *DocumentView) CoordsAt(offset int) (domain.Rect, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if offset < 0 || offset > len(v.text) {
		return domain.Rect{}, false
	}
	line, col := 0, 0
	for i, r := range v.text {
		if i == offset {
			return cellRect(line, col), true
		}
		if i > offset {
			return domain.Rect{}, false
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return cellRect(line, col), true
}

// ApplyEdit replaces the byte range [from, to) with the insert text and
// sets the selection. Change notifications fire synchronously, with the
// pre-edit text and the replaced range, before ApplyEdit returns.
func (v *DocumentView) ApplyEdit(from, to int, insert string, sel domain.Selection) error {
	v.mu.Lock()
	if from < 0 || to < from || to > len(v.text) {
		v.mu.Unlock()
		return fmt.Errorf("edit range [%d,%d) out of bounds: %w", from, to, domain.ErrInvalidInput)
	}
	oldText := v.text
	v.text = v.text[:from] + insert + v.text[to:]
	v.selection = sel
	subs := make([]subscriber, len(v.subscribers))
	copy(subs, v.subscribers)
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

func cellRect(line, col int) domain.Rect {
	top := float64(line) * lineHeight
	left := float64(col) * cellWidth
	return domain.Rect{Top: top, Left: left, Bottom: top + lineHeight, Right: left + cellWidth}
}
