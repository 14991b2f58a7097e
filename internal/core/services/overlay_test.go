package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-labs/inkstone/internal/adapters/driven/docview/memory"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// newOverlayFixture wires a memory view, a tracker holding one
// annotation, and a positioner over both. The memory view lays text on
// an 8x16 character grid, so "wrote this sentence" at offset 3 anchors
// at left 24, top 0.
func newOverlayFixture(t *testing.T) (*memory.DocumentView, *AnnotationTracker, *OverlayPositioner) {
	t.Helper()
	view := memory.NewDocumentView("AI wrote this sentence.")
	tracker := NewAnnotationTracker(view)
	t.Cleanup(tracker.Close)
	tracker.SetAnnotations([]domain.Annotation{{ID: "m1", Text: "wrote this sentence"}})
	return view, tracker, NewOverlayPositioner(view, tracker)
}

// TestOverlayPositioner_InactiveByDefault tests the initial state.
func TestOverlayPositioner_InactiveByDefault(t *testing.T) {
	_, _, pos := newOverlayFixture(t)

	assert.False(t, pos.Active())
	assert.Empty(t, pos.Anchors())
}

// TestOverlayPositioner_ShowWithoutAnnotationsStaysInactive tests that
// visibility alone does not activate positioning.
func TestOverlayPositioner_ShowWithoutAnnotationsStaysInactive(t *testing.T) {
	view := memory.NewDocumentView("no annotations here")
	tracker := NewAnnotationTracker(view)
	defer tracker.Close()
	pos := NewOverlayPositioner(view, tracker)

	pos.SetVisible(true)

	assert.False(t, pos.Active())
}

// TestOverlayPositioner_ActivatesAndAnchors tests that showing with a
// non-empty annotation set computes anchors immediately.
func TestOverlayPositioner_ActivatesAndAnchors(t *testing.T) {
	_, _, pos := newOverlayFixture(t)

	pos.SetVisible(true)

	assert.True(t, pos.Active())
	anchors := pos.Anchors()
	require.Len(t, anchors, 1)
	assert.Equal(t, "m1", anchors[0].AnnotationID)
	assert.Equal(t, domain.Rect{Top: 0, Left: 24, Bottom: 16, Right: 32}, anchors[0].Rect)
}

// TestOverlayPositioner_ViewportRelative tests that anchors subtract
// the viewport origin, simulating a scrolled view.
func TestOverlayPositioner_ViewportRelative(t *testing.T) {
	view := memory.NewDocumentView("first line\nAI wrote this sentence.")
	tracker := NewAnnotationTracker(view)
	defer tracker.Close()
	tracker.SetAnnotations([]domain.Annotation{{ID: "m1", Text: "wrote this sentence"}})
	pos := NewOverlayPositioner(view, tracker)

	// Scroll one line down: the span on line 1 lands at the viewport top.
	view.SetViewport(domain.Rect{Top: 16, Left: 0, Bottom: 336, Right: 640})
	pos.SetVisible(true)

	anchors := pos.Anchors()
	require.Len(t, anchors, 1)
	assert.Equal(t, domain.Rect{Top: 0, Left: 24, Bottom: 16, Right: 32}, anchors[0].Rect)
}

// TestOverlayPositioner_AbsentTextDropsAnchor tests that an annotation
// whose text cannot be located is dropped for the tick, silently.
func TestOverlayPositioner_AbsentTextDropsAnchor(t *testing.T) {
	view, _, pos := newOverlayFixture(t)
	pos.SetVisible(true)
	require.Len(t, pos.Anchors(), 1)

	view.SetText("entirely different content")
	pos.Tick()

	assert.Empty(t, pos.Anchors())
	assert.True(t, pos.Active())
}

// TestOverlayPositioner_DeactivatesWhenListEmpties tests the
// active-to-inactive transition on an emptied annotation set.
func TestOverlayPositioner_DeactivatesWhenListEmpties(t *testing.T) {
	_, tracker, pos := newOverlayFixture(t)
	pos.SetVisible(true)
	require.True(t, pos.Active())

	tracker.SetAnnotations(nil)
	pos.Tick()

	assert.False(t, pos.Active())
	assert.Empty(t, pos.Anchors())
}

// TestOverlayPositioner_HideDeactivates tests that hiding cancels
// positioning and discards anchors.
func TestOverlayPositioner_HideDeactivates(t *testing.T) {
	_, _, pos := newOverlayFixture(t)
	pos.SetVisible(true)
	require.True(t, pos.Active())

	pos.SetVisible(false)

	assert.False(t, pos.Active())
	assert.Empty(t, pos.Anchors())
	_, ok := pos.Hover(25, 8)
	assert.False(t, ok)
}

// TestOverlayPositioner_Hover tests the hover hit area: vertical span
// padded by a small epsilon, horizontal span from left minus margin
// extending a fixed width right.
func TestOverlayPositioner_Hover(t *testing.T) {
	_, _, pos := newOverlayFixture(t)
	pos.SetVisible(true)

	// Anchor rect is {0, 24, 16, 32}; hit area {-2, 20, 18, 380}.
	tests := []struct {
		name string
		x, y float64
		hit  bool
	}{
		{"inside the glyph", 25, 8, true},
		{"right of the span, inside hover width", 300, 8, true},
		{"just left of the margin", 19.5, 8, false},
		{"on the left margin edge", 20, 8, true},
		{"past the hover width", 380, 8, false},
		{"above within epsilon", 25, -2, true},
		{"above beyond epsilon", 25, -2.5, false},
		{"below within epsilon", 25, 18, true},
		{"below beyond epsilon", 25, 18.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := pos.Hover(tt.x, tt.y)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.Equal(t, "m1", id)
			}
		})
	}
}

// TestOverlayPositioner_HoverFirstAnchorWins tests the tie-break when
// hover areas overlap: the first anchor in the list is the active one.
func TestOverlayPositioner_HoverFirstAnchorWins(t *testing.T) {
	view := memory.NewDocumentView("alpha span\nbeta span here")
	tracker := NewAnnotationTracker(view)
	defer tracker.Close()
	tracker.SetAnnotations([]domain.Annotation{
		{ID: "top", Text: "alpha span"},
		{ID: "bottom", Text: "beta span"},
	})
	pos := NewOverlayPositioner(view, tracker)
	pos.SetVisible(true)

	// y=15 sits inside line 0 and within line 1's top epsilon.
	id, ok := pos.Hover(5, 15)

	require.True(t, ok)
	assert.Equal(t, "top", id)
}

// TestOverlayPositioner_HoverWidthOverride tests the width setter.
func TestOverlayPositioner_HoverWidthOverride(t *testing.T) {
	_, _, pos := newOverlayFixture(t)
	pos.SetHoverWidth(40)
	pos.SetVisible(true)

	_, ok := pos.Hover(100, 8)
	assert.False(t, ok)
	_, ok = pos.Hover(59, 8)
	assert.True(t, ok)
}

// TestOverlayPositioner_StartLoopTracksEdits tests the periodic loop:
// anchors follow the span as the document changes, and Stop cancels.
func TestOverlayPositioner_StartLoopTracksEdits(t *testing.T) {
	view, _, pos := newOverlayFixture(t)
	pos.SetTickInterval(10 * time.Millisecond)
	pos.SetVisible(true)
	pos.Start(context.Background())

	// Shift the span two columns right.
	require.NoError(t, view.ApplyEdit(0, 0, "X ", domain.Selection{}))

	time.Sleep(60 * time.Millisecond)

	anchors := pos.Anchors()
	require.Len(t, anchors, 1)
	assert.Equal(t, 40.0, anchors[0].Rect.Left)

	pos.Stop()
	assert.False(t, pos.Active())
}

// TestOverlayPositioner_StartWhileInactiveIsNoop tests that the loop
// only runs for an active overlay.
func TestOverlayPositioner_StartWhileInactiveIsNoop(t *testing.T) {
	_, _, pos := newOverlayFixture(t)

	pos.Start(context.Background())
	time.Sleep(20 * time.Millisecond)

	assert.False(t, pos.Active())
	assert.Empty(t, pos.Anchors())
	pos.Stop()
}
