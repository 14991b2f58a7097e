package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
	"github.com/inkstone-labs/inkstone/internal/logger"
)

// Ensure AnnotationTracker implements the interface.
var _ driving.AnnotationTracker = (*AnnotationTracker)(nil)

// AnnotationTracker keeps machine-authored spans highlighted and
// correct while one document is edited. Ranges are fully recomputed on
// every document change rather than incrementally patched, trading an
// O(n*m) rescan for correctness under arbitrary edits.
type AnnotationTracker struct {
	view driven.DocumentView

	mu          sync.RWMutex
	annotations []domain.Annotation
	ranges      []domain.MarkRange
	observers   []func(id string)
	unsubscribe func()
}

// NewAnnotationTracker creates a tracker bound to a document view.
// The tracker subscribes to the view's change notifications; overlap
// checks and the range rebuild run synchronously inside each
// notification, so a second edit is never processed before the first
// completes.
func NewAnnotationTracker(view driven.DocumentView) *AnnotationTracker {
	t := &AnnotationTracker{view: view}
	t.unsubscribe = view.Subscribe(t.handleDocChanged)
	return t
}

// NewAnnotation mints an annotation for a machine-authored span.
func NewAnnotation(text string) domain.Annotation {
	return domain.Annotation{ID: uuid.NewString(), Text: text}
}

// SetAnnotations replaces the tracked annotation set wholesale and
// rebuilds the mark ranges from the current document text.
func (t *AnnotationTracker) SetAnnotations(annotations []domain.Annotation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.annotations = make([]domain.Annotation, len(annotations))
	copy(t.annotations, annotations)
	t.ranges = RebuildMarks(t.view.Text(), t.annotations)

	logger.Debug("Annotations replaced: %d tracked, %d ranges resolved", len(t.annotations), len(t.ranges))
}

// Annotations returns the currently tracked annotations in
// caller-supplied order.
func (t *AnnotationTracker) Annotations() []domain.Annotation {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Annotation, len(t.annotations))
	copy(out, t.annotations)
	return out
}

// Ranges returns the current resolved mark ranges.
func (t *AnnotationTracker) Ranges() []domain.MarkRange {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.MarkRange, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// OnAnnotationEdited registers an observer called with an annotation's
// id when a user edit touches one of its occurrences.
func (t *AnnotationTracker) OnAnnotationEdited(fn func(id string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Accept removes one annotation, leaving its text in place. Further
// edits to that text no longer notify observers.
func (t *AnnotationTracker) Accept(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := -1
	for i, ann := range t.annotations {
		if ann.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("accept annotation %s: %w", id, domain.ErrNotFound)
	}

	t.annotations = append(t.annotations[:idx], t.annotations[idx+1:]...)
	t.ranges = RebuildMarks(t.view.Text(), t.annotations)

	logger.Info("Annotation %s accepted, %d remaining", id, len(t.annotations))
	return nil
}

// Close detaches the tracker from its document view.
func (t *AnnotationTracker) Close() {
	t.mu.Lock()
	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// handleDocChanged correlates an edit with the annotations it touched,
// rebuilds the ranges from the post-edit text, then notifies observers
// once per touched annotation. The touched set is computed in full
// before any observer runs, so one observer cannot short-circuit
// notifications for the rest of the batch.
func (t *AnnotationTracker) handleDocChanged(oldText string, deltas []domain.EditDelta) {
	t.mu.Lock()
	touched := TouchedAnnotations(oldText, deltas, t.annotations)
	t.ranges = RebuildMarks(t.view.Text(), t.annotations)
	observers := make([]func(string), len(t.observers))
	copy(observers, t.observers)
	t.mu.Unlock()

	if len(touched) > 0 {
		logger.Debug("Edit touched %d annotation(s)", len(touched))
	}
	for _, id := range touched {
		for _, fn := range observers {
			fn(id)
		}
	}
}
