// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Background is the background colour.
	Background lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// MatchBg is the background for search match highlights.
	MatchBg lipgloss.Color

	// AnnotationBg is the background for annotated span highlights.
	AnnotationBg lipgloss.Color
}

// DefaultTheme returns the default colour theme, dark ink on paper.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:      lipgloss.Color("#6E9ECF"), // Steel blue
		Secondary:    lipgloss.Color("#76C7B7"), // Verdigris
		Background:   lipgloss.Color("#14141B"), // Iron-gall black
		Foreground:   lipgloss.Color("#D8DEE9"), // Paper white
		Muted:        lipgloss.Color("#5C6370"), // Graphite
		Success:      lipgloss.Color("#98C379"), // Green
		Warning:      lipgloss.Color("#E5C07B"), // Amber
		Error:        lipgloss.Color("#E06C75"), // Vermilion
		Border:       lipgloss.Color("#3B4048"), // Slate
		MatchBg:      lipgloss.Color("#2D4F67"), // Deep water
		AnnotationBg: lipgloss.Color("#433D59"), // Dim violet
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style

	// Match style for search match highlights inside result lines.
	Match lipgloss.Style

	// ActiveMatch style for the match the session is positioned on.
	ActiveMatch lipgloss.Style

	// Annotation style for machine-authored span highlights.
	Annotation lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#0E0E13")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Match: lipgloss.NewStyle().
			Background(theme.MatchBg).
			Foreground(theme.Foreground),

		ActiveMatch: lipgloss.NewStyle().
			Bold(true).
			Background(theme.Secondary).
			Foreground(theme.Background),

		Annotation: lipgloss.NewStyle().
			Background(theme.AnnotationBg).
			Foreground(theme.Foreground),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
