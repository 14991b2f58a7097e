package domain

// Rect is a screen rectangle in the host's coordinate space. For a GUI
// host the units are pixels; for a terminal host they are cells. Vertical
// axis grows downward, so Top <= Bottom.
type Rect struct {
	// Top is the y coordinate of the upper edge.
	Top float64

	// Left is the x coordinate of the left edge.
	Left float64

	// Bottom is the y coordinate of the lower edge.
	Bottom float64

	// Right is the x coordinate of the right edge.
	Right float64
}

// Contains returns true if the point lies inside the rectangle.
// Vertical bounds are inclusive; the right edge is exclusive.
func (r Rect) Contains(x, y float64) bool {
	return y >= r.Top && y <= r.Bottom && x >= r.Left && x < r.Right
}

// Translate returns a copy of the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Top:    r.Top + dy,
		Left:   r.Left + dx,
		Bottom: r.Bottom + dy,
		Right:  r.Right + dx,
	}
}

// OverlayAnchor is the current screen rectangle associated with an
// annotation, relative to the containing viewport. Recomputed every
// positioning tick; annotations whose text cannot be located are simply
// absent from the anchor list for that tick.
type OverlayAnchor struct {
	// AnnotationID links to the anchored Annotation.
	AnnotationID string

	// Rect is the viewport-relative rectangle of the annotation's
	// first text occurrence.
	Rect Rect
}
