package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
	"github.com/inkstone-labs/inkstone/internal/logger"
)

const (
	// defaultTickInterval is how often the positioning loop refreshes
	// anchors when driven by Start.
	defaultTickInterval = 50 * time.Millisecond

	// defaultHoverWidth is the horizontal extent of the hover hit area,
	// wide enough to cover a control rendered to the right of the span.
	defaultHoverWidth = 360.0

	// hoverEpsilon pads the hover hit area vertically so the pointer can
	// sit just above or below the anchored line.
	hoverEpsilon = 2.0

	// hoverMargin extends the hover hit area to the left of the anchor.
	hoverMargin = 4.0
)

// Ensure OverlayPositioner implements the interface.
var _ driving.OverlayService = (*OverlayPositioner)(nil)

// OverlayPositioner maps live annotations to viewport-relative screen
// rectangles so a host can float controls next to them. It is inactive
// until shown with a non-empty annotation set, and deactivates as soon
// as it is hidden or the set empties. Anchors are recomputed from
// scratch on every tick; an annotation whose text cannot be located in
// the document is simply absent from that tick's output.
type OverlayPositioner struct {
	view    driven.DocumentView
	tracker driving.AnnotationTracker

	mu           sync.RWMutex
	visible      bool
	active       bool
	anchors      []domain.OverlayAnchor
	tickInterval time.Duration
	hoverWidth   float64
	cancel       context.CancelFunc

	wg sync.WaitGroup
}

// NewOverlayPositioner creates a positioner over a document view and the
// annotation tracker that owns the annotations to anchor.
func NewOverlayPositioner(view driven.DocumentView, tracker driving.AnnotationTracker) *OverlayPositioner {
	return &OverlayPositioner{
		view:         view,
		tracker:      tracker,
		tickInterval: defaultTickInterval,
		hoverWidth:   defaultHoverWidth,
	}
}

// SetTickInterval overrides how often the Start loop refreshes anchors.
func (s *OverlayPositioner) SetTickInterval(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if interval > 0 {
		s.tickInterval = interval
	}
}

// SetHoverWidth overrides the horizontal extent of the hover hit area.
func (s *OverlayPositioner) SetHoverWidth(width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width > 0 {
		s.hoverWidth = width
	}
}

// SetVisible shows or hides the overlay. Showing with a non-empty
// annotation set activates positioning and performs an immediate tick;
// hiding deactivates and discards the current anchors.
func (s *OverlayPositioner) SetVisible(visible bool) {
	if !visible {
		s.mu.Lock()
		s.visible = false
		s.deactivateLocked()
		s.mu.Unlock()
		return
	}

	annotations := s.tracker.Annotations()

	s.mu.Lock()
	s.visible = true
	if len(annotations) == 0 {
		s.mu.Unlock()
		logger.Debug("Overlay shown with no annotations, staying inactive")
		return
	}
	s.active = true
	s.mu.Unlock()

	s.Tick()
}

// Active reports whether the positioning loop is running.
func (s *OverlayPositioner) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Start runs the positioning loop on a periodic ticker until the context
// is cancelled or the overlay deactivates. It returns immediately; the
// loop runs on its own goroutine. Starting an already-running or
// inactive positioner is a no-op.
func (s *OverlayPositioner) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil || !s.active {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	interval := s.tickInterval
	s.mu.Unlock()

	logger.Debug("Overlay positioning loop started (every %s)", interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop hides the overlay, cancels the positioning loop, and waits for it
// to exit.
func (s *OverlayPositioner) Stop() {
	s.mu.Lock()
	s.visible = false
	s.deactivateLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

// Tick performs one positioning pass. If the annotation set has emptied
// the positioner deactivates instead. Exposed so hosts without a timer
// (and tests) can drive the loop explicitly.
func (s *OverlayPositioner) Tick() {
	s.mu.RLock()
	active := s.active
	s.mu.RUnlock()
	if !active {
		return
	}

	annotations := s.tracker.Annotations()
	if len(annotations) == 0 {
		s.mu.Lock()
		s.deactivateLocked()
		s.mu.Unlock()
		logger.Debug("Annotation set emptied, overlay deactivated")
		return
	}

	text := s.view.Text()
	viewport := s.view.Viewport()

	anchors := make([]domain.OverlayAnchor, 0, len(annotations))
	for _, ann := range annotations {
		at := strings.Index(text, ann.Text)
		if at < 0 {
			continue
		}
		rect, ok := s.view.CoordsAt(at)
		if !ok {
			continue
		}
		anchors = append(anchors, domain.OverlayAnchor{
			AnnotationID: ann.ID,
			Rect:         rect.Translate(-viewport.Left, -viewport.Top),
		})
	}

	s.mu.Lock()
	if s.active {
		s.anchors = anchors
	}
	s.mu.Unlock()
}

// Anchors returns the anchors computed by the latest tick.
func (s *OverlayPositioner) Anchors() []domain.OverlayAnchor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.OverlayAnchor, len(s.anchors))
	copy(out, s.anchors)
	return out
}

// Hover hit-tests a viewport-relative pointer position against the
// current anchors. The hit area of an anchor spans a little above and
// below its rectangle and extends a fixed width to the right, so a
// control rendered beside the span stays hoverable. The first anchor
// containing the point wins.
func (s *OverlayPositioner) Hover(x, y float64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.anchors {
		hit := domain.Rect{
			Top:    a.Rect.Top - hoverEpsilon,
			Left:   a.Rect.Left - hoverMargin,
			Bottom: a.Rect.Bottom + hoverEpsilon,
			Right:  a.Rect.Left - hoverMargin + s.hoverWidth,
		}
		if hit.Contains(x, y) {
			return a.AnnotationID, true
		}
	}
	return "", false
}

// deactivateLocked stops positioning and discards anchors. Callers must
// hold the write lock. The loop goroutine is cancelled but not awaited
// here, since Tick itself may be the caller.
func (s *OverlayPositioner) deactivateLocked() {
	s.active = false
	s.anchors = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
