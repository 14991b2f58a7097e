package driven

import (
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// DocumentView is the narrow contract onto the host rendering component
// for one open document. The view owns cursor rendering, line wrapping,
// keymaps and styling; core consumes it only through this capability
// surface and must work against any implementation, including test
// doubles.
type DocumentView interface {
	// Text returns the current full document text.
	Text() string

	// CoordsAt returns the screen rectangle of the glyph at the given
	// byte offset, in document-surface coordinates. Returns false if
	// the offset is out of range or not currently laid out.
	CoordsAt(offset int) (domain.Rect, bool)

	// Viewport returns the screen rectangle of the visible viewport,
	// in the same coordinate space as CoordsAt.
	Viewport() domain.Rect

	// ApplyEdit replaces the byte range [from, to) with insert and
	// moves the selection. Change notifications fire synchronously
	// before ApplyEdit returns.
	ApplyEdit(from, to int, insert string, sel domain.Selection) error

	// Select moves the selection without changing the text, scrolling
	// the selection into view.
	Select(from, to int)

	// Subscribe registers an observer for document changes. The
	// observer receives the pre-edit text and the replaced ranges,
	// addressed against that pre-edit text. The returned function
	// unsubscribes.
	Subscribe(fn func(oldText string, deltas []domain.EditDelta)) (unsubscribe func())
}
