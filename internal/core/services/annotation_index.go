package services

import (
	"sort"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/textmatch"
)

// RebuildMarks resolves the mark ranges for a document from scratch.
// For each trackable annotation, in list order, every non-overlapping
// literal occurrence of its text becomes a candidate. Candidates are
// stable-sorted by start offset, then accepted greedily: a candidate
// starting before the previous accepted end is dropped. The result is
// sorted, pairwise non-overlapping, and ties go to the annotation
// declared earlier.
//
// Pure function: calling it twice with identical inputs yields an
// identical range set including order.
func RebuildMarks(documentText string, annotations []domain.Annotation) []domain.MarkRange {
	var candidates []domain.MarkRange
	for _, ann := range annotations {
		if !ann.Trackable() {
			continue
		}
		for _, span := range textmatch.FindLiteral(documentText, ann.Text) {
			candidates = append(candidates, domain.MarkRange{
				From:         span[0],
				To:           span[1],
				AnnotationID: ann.ID,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].From < candidates[j].From
	})

	ranges := make([]domain.MarkRange, 0, len(candidates))
	lastTo := 0
	for _, c := range candidates {
		if c.From < lastTo {
			continue
		}
		ranges = append(ranges, c)
		lastTo = c.To
	}
	return ranges
}

// TouchedAnnotations reports which annotations have a literal
// occurrence intersecting any of an edit's replaced ranges, scanned
// against the pre-edit text. Each annotation id appears at most once,
// in annotation list order, even when an edit touches it through
// several occurrences or several ranges. Touching a range exactly at
// its boundary does not count as an intersection.
func TouchedAnnotations(oldText string, deltas []domain.EditDelta, annotations []domain.Annotation) []string {
	var touched []string
	flagged := make(map[string]bool, len(annotations))
	for _, ann := range annotations {
		if flagged[ann.ID] || !ann.Trackable() {
			continue
		}
	occurrences:
		for _, span := range textmatch.FindLiteral(oldText, ann.Text) {
			for _, d := range deltas {
				if d.Overlaps(span[0], span[1]) {
					touched = append(touched, ann.ID)
					flagged[ann.ID] = true
					break occurrences
				}
			}
		}
	}
	return touched
}
