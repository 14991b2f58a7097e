package domain

// MinAnnotationTextLen is the shortest annotation text that is tracked.
// Shorter strings are excluded to avoid pathological highlighting of
// common short tokens.
const MinAnnotationTextLen = 4

// Annotation represents a machine-authored span of text.
// Identity is ID; Text is the exact substring that was inserted and must
// still be present verbatim for the annotation to remain visible.
type Annotation struct {
	// ID is the unique identifier for the annotation.
	ID string

	// Text is the exact inserted substring, matched verbatim.
	Text string
}

// Trackable returns true if the annotation text is long enough to track.
func (a Annotation) Trackable() bool {
	return len(a.Text) >= MinAnnotationTextLen
}

// MarkRange is a resolved, non-overlapping text interval backing one
// annotation in the current document state. Ranges are half-open
// [From, To) byte offsets into the document text.
type MarkRange struct {
	// From is the inclusive start offset.
	From int

	// To is the exclusive end offset. Always greater than From.
	To int

	// AnnotationID links to the Annotation this range backs.
	AnnotationID string
}

// Len returns the length of the range in bytes.
func (r MarkRange) Len() int {
	return r.To - r.From
}

// Contains returns true if the byte offset falls inside the range.
func (r MarkRange) Contains(offset int) bool {
	return offset >= r.From && offset < r.To
}

// EditDelta describes one replaced range of the pre-edit document text.
// An edit transaction produces one or more deltas. Offsets address the
// text as it was BEFORE the edit.
type EditDelta struct {
	// FromOld is the inclusive start of the replaced range.
	FromOld int

	// ToOld is the exclusive end of the replaced range.
	ToOld int
}

// Overlaps reports whether the half-open span [start, end) intersects
// the delta's replaced range. Touching exactly at a boundary
// (end == FromOld or start == ToOld) is not an overlap.
func (d EditDelta) Overlaps(start, end int) bool {
	return start < d.ToOld && end > d.FromOld
}

// Selection is a cursor selection inside a document, half-open
// [From, To). A caret is represented with From == To.
type Selection struct {
	// From is the anchor offset.
	From int

	// To is the head offset.
	To int
}
