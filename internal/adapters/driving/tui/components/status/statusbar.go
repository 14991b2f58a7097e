// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/keymap"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
	StateEditing   State = "editing"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	state           State
	message         string
	matchCount      int
	fileCount       int
	activeMatch     int
	totalMatches    int
	annotationCount int
	dirty           bool
	width           int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:  s,
		keymap:  km,
		state:   StateReady,
		message: "",
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	// Left side: state/message
	left := s.renderLeft()

	// Right side: keybinding hints
	right := s.renderRight()

	// Calculate padding
	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	bar := s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)

	return bar
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateEditing:
		return s.renderEditing()
	case StateReady, StateResults:
		if s.matchCount > 0 {
			return s.styles.Normal.Render(
				fmt.Sprintf("%d matches in %d files", s.matchCount, s.fileCount),
			)
		}
		return s.styles.Muted.Render("Ready")
	}
	return s.styles.Muted.Render("Ready")
}

// renderEditing renders the editor segment: file name, unsaved marker,
// match position and annotation count.
func (s *Bar) renderEditing() string {
	name := s.message
	if name == "" {
		name = "untitled"
	}
	if s.dirty {
		name += " *"
	}

	parts := []string{s.styles.Normal.Render(name)}
	if s.totalMatches > 0 {
		parts = append(parts, s.styles.Selected.Render(
			fmt.Sprintf("%d/%d", s.activeMatch, s.totalMatches),
		))
	}
	if s.annotationCount > 0 {
		parts = append(parts, s.styles.Muted.Render(
			fmt.Sprintf("%d annotations", s.annotationCount),
		))
	}
	return strings.Join(parts, "  ")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	// Show different hints based on state
	switch {
	case s.state == StateEditing:
		bindings = s.keymap.EditorHelp()
	case s.state == StateResults && s.matchCount > 0:
		bindings = s.keymap.SearchHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hint := fmt.Sprintf("%s: %s", h.Key, h.Desc)
		hints = append(hints, hint)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCounts sets the workspace result totals.
func (s *Bar) SetResultCounts(matches, files int) {
	s.matchCount = matches
	s.fileCount = files
}

// MatchCount returns the current workspace match total.
func (s *Bar) MatchCount() int {
	return s.matchCount
}

// SetMatchPosition sets the in-document match position, 1-based.
func (s *Bar) SetMatchPosition(active, total int) {
	s.activeMatch = active
	s.totalMatches = total
}

// MatchPosition returns the in-document match position.
func (s *Bar) MatchPosition() (active, total int) {
	return s.activeMatch, s.totalMatches
}

// SetAnnotationCount sets the number of live annotations in the open document.
func (s *Bar) SetAnnotationCount(count int) {
	s.annotationCount = count
}

// AnnotationCount returns the annotation count.
func (s *Bar) AnnotationCount() int {
	return s.annotationCount
}

// SetDirty marks the open document as having unsaved changes.
func (s *Bar) SetDirty(dirty bool) {
	s.dirty = dirty
}

// Dirty reports whether the open document has unsaved changes.
func (s *Bar) Dirty() bool {
	return s.dirty
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.matchCount = 0
	s.fileCount = 0
	s.activeMatch = 0
	s.totalMatches = 0
	s.annotationCount = 0
	s.dirty = false
}
