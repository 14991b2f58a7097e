package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "ctrl+c")
	assert.NotContains(t, keys, "q", "plain letters must stay typeable in the editor")
}

func TestDefaultKeyMap_HelpBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Help.Keys()
	assert.Contains(t, keys, "?")
}

func TestDefaultKeyMap_BackBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Back.Keys()
	assert.Contains(t, keys, "esc")
}

func TestDefaultKeyMap_FindBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Find.Keys()
	assert.Contains(t, keys, "ctrl+f")
}

func TestDefaultKeyMap_MatchNavigation(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.NextMatch.Keys(), "ctrl+n")
	assert.Contains(t, km.PrevMatch.Keys(), "ctrl+p")
}

func TestDefaultKeyMap_ReplaceBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.ReplaceOne.Keys(), "ctrl+h")
	assert.Contains(t, km.ReplaceAll.Keys(), "ctrl+r")
}

func TestDefaultKeyMap_SaveBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Save.Keys()
	assert.Contains(t, keys, "ctrl+s")
}

func TestDefaultKeyMap_OverlayBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.ToggleOverlay.Keys(), "ctrl+g")
	assert.Contains(t, km.Accept.Keys(), "ctrl+a")
}

func TestDefaultKeyMap_UpBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Up.Keys()
	assert.Contains(t, keys, "up")
	assert.Contains(t, keys, "k")
}

func TestDefaultKeyMap_DownBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Down.Keys()
	assert.Contains(t, keys, "down")
	assert.Contains(t, keys, "j")
}

func TestDefaultKeyMap_SelectBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Select.Keys()
	assert.Contains(t, keys, "enter")
}

func TestDefaultKeyMap_CollapseBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Collapse.Keys()
	assert.Contains(t, keys, "tab")
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Len(t, bindings, 2)
	assert.Equal(t, km.Quit, bindings[0])
	assert.Equal(t, km.Help, bindings[1])
}

func TestEditorHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.EditorHelp()

	assert.Len(t, bindings, 4)
	assert.Equal(t, km.Find, bindings[0])
	assert.Equal(t, km.Save, bindings[1])
}

func TestSearchHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.SearchHelp()

	assert.Len(t, bindings, 4)
	assert.Equal(t, km.ReplaceAll, bindings[2])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 5)    // 5 groups
	assert.Len(t, bindings[0], 3) // Up, Down, Select
	assert.Len(t, bindings[1], 3) // Find, NextMatch, PrevMatch
	assert.Len(t, bindings[2], 3) // ReplaceOne, ReplaceAll, Save
	assert.Len(t, bindings[3], 3) // ToggleOverlay, Accept, Collapse
	assert.Len(t, bindings[4], 3) // Help, Back, Quit
}

func TestMatches_True(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("?", km.Help))
	assert.True(t, Matches("up", km.Up))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("ctrl+f", km.Find))
}

func TestMatches_False(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("a", km.Help))
	assert.False(t, Matches("down", km.Up))
	assert.False(t, Matches("f", km.Find))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	testCases := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Help", km.Help},
		{"Back", km.Back},
		{"Up", km.Up},
		{"Down", km.Down},
		{"Select", km.Select},
		{"Find", km.Find},
		{"NextMatch", km.NextMatch},
		{"PrevMatch", km.PrevMatch},
		{"ReplaceOne", km.ReplaceOne},
		{"ReplaceAll", km.ReplaceAll},
		{"Save", km.Save},
		{"ToggleOverlay", km.ToggleOverlay},
		{"Accept", km.Accept},
		{"Collapse", km.Collapse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			help := tc.binding.Help()
			assert.NotEmpty(t, help.Key, "binding should have help key")
		})
	}
}
