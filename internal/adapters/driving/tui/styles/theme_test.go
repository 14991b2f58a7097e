package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme_PaletteComplete(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)

	palette := map[string]lipgloss.Color{
		"Primary":      theme.Primary,
		"Secondary":    theme.Secondary,
		"Background":   theme.Background,
		"Foreground":   theme.Foreground,
		"Muted":        theme.Muted,
		"Success":      theme.Success,
		"Warning":      theme.Warning,
		"Error":        theme.Error,
		"Border":       theme.Border,
		"MatchBg":      theme.MatchBg,
		"AnnotationBg": theme.AnnotationBg,
	}

	seen := make(map[string]string)
	for name, c := range palette {
		assert.NotEmpty(t, string(c), "%s is unset", name)
		if prev, dup := seen[string(c)]; dup {
			t.Errorf("%s and %s share %s", name, prev, string(c))
		}
		seen[string(c)] = name
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilThemeFallsBack(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles()

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_AllRender(t *testing.T) {
	styles := DefaultStyles()

	tests := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Title", styles.Title},
		{"Subtitle", styles.Subtitle},
		{"Normal", styles.Normal},
		{"Muted", styles.Muted},
		{"Selected", styles.Selected},
		{"Error", styles.Error},
		{"Success", styles.Success},
		{"Warning", styles.Warning},
		{"InputField", styles.InputField},
		{"StatusBar", styles.StatusBar},
		{"Help", styles.Help},
		{"Border", styles.Border},
		{"Match", styles.Match},
		{"ActiveMatch", styles.ActiveMatch},
		{"Annotation", styles.Annotation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, lipgloss.Style{}, tt.style)
			assert.NotEmpty(t, tt.style.Render("quick brown fox"))
		})
	}
}

func TestStyles_HighlightsDistinguishable(t *testing.T) {
	// The editor layers these three over document text. A reader has
	// to be able to tell a plain match, the active match, and an
	// annotated span apart.
	styles := DefaultStyles()

	assert.NotEqual(t, styles.Match.GetBackground(), styles.ActiveMatch.GetBackground())
	assert.NotEqual(t, styles.Match.GetBackground(), styles.Annotation.GetBackground())
	assert.NotEqual(t, styles.ActiveMatch.GetBackground(), styles.Annotation.GetBackground())
	assert.True(t, styles.ActiveMatch.GetBold())
}
