// Package domain defines the core business entities for Inkstone.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Annotation: A machine-authored span identified by its exact text
//   - MarkRange: A resolved, non-overlapping interval backing an annotation
//   - EditDelta: A replaced range of the pre-edit document text
//   - SearchQuery: Raw user search input plus its matching options
//   - LineMatch / FileResult: Per-line and per-file search hits
//   - OverlayAnchor: The screen rectangle anchoring an annotation control
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
