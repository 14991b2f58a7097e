package driving

import (
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// AnnotationTracker keeps machine-authored spans highlighted and
// correct while one document is edited.
type AnnotationTracker interface {
	// SetAnnotations replaces the tracked annotation set wholesale
	// and rebuilds the mark ranges from the current document text.
	SetAnnotations(annotations []domain.Annotation)

	// Annotations returns the currently tracked annotations in
	// caller-supplied order.
	Annotations() []domain.Annotation

	// Ranges returns the current resolved mark ranges, sorted by
	// start offset and pairwise non-overlapping.
	Ranges() []domain.MarkRange

	// OnAnnotationEdited registers an observer called with an
	// annotation's id when a user edit touches one of its
	// occurrences. At most one call per annotation per edit
	// transaction.
	OnAnnotationEdited(fn func(id string))

	// Accept removes one annotation, leaving its text in place.
	// Further edits to that text no longer notify observers.
	Accept(id string) error

	// Close detaches the tracker from its document view.
	Close()
}
