package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAnnotation_Trackable tests the minimum text length rule
func TestAnnotation_Trackable(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		trackable bool
	}{
		{"empty text", "", false},
		{"one char", "a", false},
		{"three chars", "abc", false},
		{"exactly four chars", "abcd", true},
		{"long text", "wrote this sentence", true},
		{"multibyte runes counted as bytes", "héé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Annotation{ID: "m1", Text: tt.text}
			assert.Equal(t, tt.trackable, a.Trackable())
		})
	}
}

// TestMarkRange_Len tests range length
func TestMarkRange_Len(t *testing.T) {
	r := MarkRange{From: 3, To: 10, AnnotationID: "m1"}
	assert.Equal(t, 7, r.Len())
}

// TestMarkRange_Contains tests half-open containment
func TestMarkRange_Contains(t *testing.T) {
	r := MarkRange{From: 3, To: 10, AnnotationID: "m1"}

	assert.False(t, r.Contains(2))
	assert.True(t, r.Contains(3))
	assert.True(t, r.Contains(9))
	assert.False(t, r.Contains(10))
}

// TestEditDelta_Overlaps tests half-open intersection
func TestEditDelta_Overlaps(t *testing.T) {
	d := EditDelta{FromOld: 10, ToOld: 20}

	assert.True(t, d.Overlaps(5, 15))
	assert.True(t, d.Overlaps(15, 25))
	assert.True(t, d.Overlaps(12, 18))
	assert.True(t, d.Overlaps(5, 25))
	assert.False(t, d.Overlaps(0, 5))
	assert.False(t, d.Overlaps(25, 30))
}

// TestEditDelta_Overlaps_Boundaries tests that touching at a boundary is
// not an overlap. The strict inequality is deliberate: an edit ending
// exactly where a span starts must not flag the span.
func TestEditDelta_Overlaps_Boundaries(t *testing.T) {
	d := EditDelta{FromOld: 10, ToOld: 20}

	// span ends exactly at the delta start
	assert.False(t, d.Overlaps(5, 10))

	// span starts exactly at the delta end
	assert.False(t, d.Overlaps(20, 25))

	// one past the boundary in each direction does overlap
	assert.True(t, d.Overlaps(5, 11))
	assert.True(t, d.Overlaps(19, 25))
}

// TestSelection_Caret tests caret representation
func TestSelection_Caret(t *testing.T) {
	sel := Selection{From: 7, To: 7}
	assert.Equal(t, sel.From, sel.To)
}
