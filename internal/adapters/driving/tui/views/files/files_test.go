package files

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/messages"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// MockWorkspace implements driven.Workspace for testing.
type MockWorkspace struct {
	RootFunc          func() string
	ListTextFilesFunc func(ctx context.Context) ([]string, error)
	ReadTextFunc      func(ctx context.Context, path string) (string, error)
	WriteTextFunc     func(ctx context.Context, path, content string) error
	WatchFunc         func(ctx context.Context) (<-chan domain.FileChange, error)
}

func (m *MockWorkspace) Root() string {
	if m.RootFunc != nil {
		return m.RootFunc()
	}
	return "/workspace"
}

func (m *MockWorkspace) ListTextFiles(ctx context.Context) ([]string, error) {
	if m.ListTextFilesFunc != nil {
		return m.ListTextFilesFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockWorkspace) ReadText(ctx context.Context, path string) (string, error) {
	if m.ReadTextFunc != nil {
		return m.ReadTextFunc(ctx, path)
	}
	return "", nil
}

func (m *MockWorkspace) WriteText(ctx context.Context, path, content string) error {
	if m.WriteTextFunc != nil {
		return m.WriteTextFunc(ctx, path, content)
	}
	return nil
}

func (m *MockWorkspace) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx)
	}
	return nil, domain.ErrNotSupported
}

func testPaths() []string {
	return []string{
		"docs/guide.md",
		"docs/reference.md",
		"notes/todo.txt",
		"readme.md",
	}
}

func loadedView(t *testing.T, paths []string) *View {
	t.Helper()

	view := NewView(nil, &MockWorkspace{
		ListTextFilesFunc: func(ctx context.Context) ([]string, error) {
			return paths, nil
		},
	})
	view.SetDimensions(80, 24)

	cmd := view.Load()
	require.NotNil(t, cmd)
	view.Update(cmd())

	return view
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	view := NewView(s, &MockWorkspace{})

	require.NotNil(t, view)
	assert.False(t, view.ready)
	assert.Empty(t, view.paths)
	assert.False(t, view.filtering)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_Init(t *testing.T) {
	view := NewView(nil, nil)

	assert.Nil(t, view.Init())
}

func TestView_Load(t *testing.T) {
	mock := &MockWorkspace{
		ListTextFilesFunc: func(ctx context.Context) ([]string, error) {
			return testPaths(), nil
		},
	}
	view := NewView(nil, mock)

	cmd := view.Load()

	require.NotNil(t, cmd)
	assert.True(t, view.loading)

	result := cmd()
	loaded, ok := result.(messages.FilesLoaded)
	require.True(t, ok)
	assert.NoError(t, loaded.Err)
	assert.Len(t, loaded.Paths, 4)
}

func TestView_Load_NoWorkspace(t *testing.T) {
	view := NewView(nil, nil)

	cmd := view.Load()
	result := cmd()

	loaded, ok := result.(messages.FilesLoaded)
	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_Load_Error(t *testing.T) {
	mock := &MockWorkspace{
		ListTextFilesFunc: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("cannot list")
		},
	}
	view := NewView(nil, mock)

	result := view.Load()()

	loaded, ok := result.(messages.FilesLoaded)
	require.True(t, ok)
	assert.Error(t, loaded.Err)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 80, view.width)
	assert.Equal(t, 24, view.height)
}

func TestView_Update_FilesLoaded(t *testing.T) {
	view := NewView(nil, nil)
	view.loading = true

	view.Update(messages.FilesLoaded{Paths: testPaths()})

	assert.False(t, view.loading)
	assert.Len(t, view.paths, 4)
	assert.Len(t, view.filtered, 4)
}

func TestView_Update_FilesLoaded_Error(t *testing.T) {
	view := NewView(nil, nil)
	view.loading = true

	view.Update(messages.FilesLoaded{Err: errors.New("failed")})

	assert.False(t, view.loading)
	assert.Error(t, view.err)
}

func TestView_Update_ErrorOccurred(t *testing.T) {
	view := NewView(nil, nil)

	view.Update(messages.ErrorOccurred{Err: errors.New("test error")})

	assert.Error(t, view.err)
}

func TestView_Update_KeyMsg_Navigation(t *testing.T) {
	view := loadedView(t, testPaths())

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.selected)

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, view.selected)

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, view.selected)

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, view.selected)

	// Boundary: cannot move above the first row.
	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.selected)
}

func TestView_Update_KeyMsg_Navigation_LowerBound(t *testing.T) {
	view := loadedView(t, testPaths())
	view.selected = 3

	view.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 3, view.selected)
}

func TestView_Update_KeyMsg_Enter(t *testing.T) {
	view := loadedView(t, testPaths())
	view.selected = 2

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.FileSelected)
	require.True(t, ok)
	assert.Equal(t, "notes/todo.txt", selected.Path)
}

func TestView_Update_KeyMsg_Enter_EmptyList(t *testing.T) {
	view := loadedView(t, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_Update_KeyMsg_Slash_OpensFilter(t *testing.T) {
	view := loadedView(t, testPaths())

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	assert.True(t, view.filtering)
	assert.True(t, view.filter.Focused())
}

func TestView_Update_KeyMsg_Reload(t *testing.T) {
	calls := 0
	mock := &MockWorkspace{
		ListTextFilesFunc: func(ctx context.Context) ([]string, error) {
			calls++
			return testPaths(), nil
		},
	}
	view := NewView(nil, mock)
	view.SetDimensions(80, 24)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	require.NotNil(t, cmd)
	view.Update(cmd())
	assert.Equal(t, 1, calls)
	assert.Len(t, view.paths, 4)
}

func TestView_Update_KeyMsg_Back(t *testing.T) {
	view := loadedView(t, testPaths())

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, changed.View)
}

func TestView_Filter_NarrowsList(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	for _, r := range "docs" {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "docs", view.filter.Value())
	assert.Len(t, view.filtered, 2)
	assert.Equal(t, "docs/guide.md", view.filtered[0])
}

func TestView_Filter_CaseInsensitive(t *testing.T) {
	view := loadedView(t, []string{"README.md", "src/main.go"})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	for _, r := range "readme" {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Len(t, view.filtered, 1)
	assert.Equal(t, "README.md", view.filtered[0])
}

func TestView_Filter_FuzzyMatch(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	// "dgd" matches "docs/guide.md" but not "notes/todo.txt".
	for _, r := range "dgd" {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Len(t, view.filtered, 1)
	assert.Equal(t, "docs/guide.md", view.filtered[0])
}

func TestView_Filter_NoMatches(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	for _, r := range "zzz" {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Empty(t, view.filtered)
	assert.Equal(t, 0, view.selected)
	assert.Equal(t, "", view.SelectedPath())
}

func TestView_Filter_ClampsSelection(t *testing.T) {
	view := loadedView(t, testPaths())
	view.selected = 3
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	for _, r := range "docs" {
		view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, 1, view.selected)
}

func TestView_Filter_EnterApplies(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, view.filtering)
	assert.False(t, view.filter.Focused())
	assert.Equal(t, "d", view.filter.Value())
}

func TestView_Filter_EscExits(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})

	view.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, view.filtering)
	assert.Equal(t, "g", view.filter.Value())
	assert.Len(t, view.filtered, 1)
}

func TestView_Filter_EmptyShowsAll(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	view.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Len(t, view.filtered, 4)
}

func TestView_View_NotReady(t *testing.T) {
	view := NewView(nil, nil)

	assert.NotEmpty(t, view.View())
}

func TestView_View_Loading(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)
	view.loading = true

	output := view.View()

	assert.Contains(t, output, "Listing files")
}

func TestView_View_Error(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)
	view.err = errors.New("something failed")

	output := view.View()

	assert.Contains(t, output, "Error")
	assert.Contains(t, output, "something failed")
}

func TestView_View_EmptyState(t *testing.T) {
	view := loadedView(t, nil)

	output := view.View()

	assert.Contains(t, output, "No text files")
}

func TestView_View_WithPaths(t *testing.T) {
	view := loadedView(t, testPaths())

	output := view.View()

	assert.Contains(t, output, "docs/guide.md")
	assert.Contains(t, output, "readme.md")
	assert.Contains(t, output, "Open File (4)")
}

func TestView_View_FilterLineShownWhileFiltering(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	output := view.View()

	assert.Contains(t, output, "Filter")
}

func TestView_View_ScrollIndicator(t *testing.T) {
	paths := make([]string, 30)
	for i := range paths {
		paths[i] = "file.md"
	}
	view := loadedView(t, paths)
	view.SetDimensions(80, 12)

	output := view.View()

	assert.Contains(t, output, "of 30]")
}

func TestView_RenderPath_Truncation(t *testing.T) {
	view := loadedView(t, []string{"very/long/path/to/some/deeply/nested/document.md"})
	view.SetDimensions(20, 24)

	output := view.View()

	assert.Contains(t, output, "...")
	assert.Contains(t, output, "document.md")
}

func TestView_AdjustScroll(t *testing.T) {
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = "file.md"
	}
	view := loadedView(t, paths)
	view.SetDimensions(80, 12)

	view.selected = 15
	view.adjustScroll()

	assert.Greater(t, view.scrollOffset, 0)
}

func TestView_SelectedPath_Getter(t *testing.T) {
	view := loadedView(t, testPaths())
	view.selected = 1

	assert.Equal(t, "docs/reference.md", view.SelectedPath())
}

func TestView_Reset(t *testing.T) {
	view := loadedView(t, testPaths())
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	view.selected = 1
	view.err = errors.New("stale")

	view.Reset()

	assert.False(t, view.filtering)
	assert.Equal(t, "", view.filter.Value())
	assert.Equal(t, 0, view.selected)
	assert.Len(t, view.filtered, 4)
	assert.NoError(t, view.err)
}
