// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Find opens the in-document find bar.
	Find key.Binding

	// NextMatch moves to the next match.
	NextMatch key.Binding

	// PrevMatch moves to the previous match.
	PrevMatch key.Binding

	// ReplaceOne replaces the active match.
	ReplaceOne key.Binding

	// ReplaceAll replaces every match.
	ReplaceAll key.Binding

	// Save writes the open document back to the workspace.
	Save key.Binding

	// ToggleOverlay shows or hides the annotation overlay.
	ToggleOverlay key.Binding

	// Accept accepts the hovered annotation, keeping its text.
	Accept key.Binding

	// Collapse folds or unfolds a file's matches in result listings.
	Collapse key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Find: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "find"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("ctrl+n", "f3"),
			key.WithHelp("ctrl+n", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("ctrl+p", "shift+f3"),
			key.WithHelp("ctrl+p", "prev match"),
		),
		ReplaceOne: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "replace"),
		),
		ReplaceAll: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "replace all"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		ToggleOverlay: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "annotations"),
		),
		Accept: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "accept"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "fold"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// EditorHelp returns keybindings for the editor view.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Find, k.Save, k.ToggleOverlay, k.Back}
}

// SearchHelp returns keybindings for the workspace search view.
func (k *KeyMap) SearchHelp() []key.Binding {
	return []key.Binding{k.Up, k.Select, k.ReplaceAll, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Find, k.NextMatch, k.PrevMatch},
		{k.ReplaceOne, k.ReplaceAll, k.Save},
		{k.ToggleOverlay, k.Accept, k.Collapse},
		{k.Help, k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
