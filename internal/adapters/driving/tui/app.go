package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/keymap"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/messages"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/editor"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/files"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/history"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/menu"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/settings"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/worksearch"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the application keybindings.
	keymap *keymap.KeyMap

	// menuView is the main navigation menu.
	menuView *menu.View

	// filesView is the workspace file picker.
	filesView *files.View

	// editorView is the document editor with annotation tracking.
	editorView *editor.View

	// searchView is the workspace search and replace view.
	searchView *worksearch.View

	// historyView lists past workspace searches.
	historyView *history.View

	// settingsView is the settings configuration view.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// startPath, when set, opens that file in the editor on startup.
	startPath string

	// searchStarted records whether the search view's scan listener has
	// been armed. Arming happens once; the listener re-arms itself.
	searchStarted bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		filesView:    files.NewView(s, ports.Workspace),
		editorView:   editor.NewView(s, km, ports.EditorDeps()),
		searchView:   worksearch.NewView(s, km, ports.Search),
		historyView:  history.NewView(s, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.filesView.WithContext(ctx)
	a.editorView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// WithStartFile opens the given workspace file in the editor when the
// program starts, instead of the menu.
func (a *App) WithStartFile(path string) *App {
	a.startPath = path
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("inkstone - Workspace Search"),
	}
	if a.startPath != "" {
		a.currentView = messages.ViewEditor
		cmds = append(cmds, a.editorView.OpenFile(a.startPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.filesView.SetDimensions(msg.Width, msg.Height)
		a.editorView.SetDimensions(msg.Width, msg.Height)
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.historyView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewFiles:
			a.filesView, cmd = a.filesView.Update(msg)
			return a, cmd

		case messages.ViewEditor:
			a.editorView, cmd = a.editorView.Update(msg)
			a.err = a.editorView.Err()
			return a, cmd

		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			a.err = a.searchView.Err()
			return a, cmd

		case messages.ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
			return a, cmd

		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ScanDelivered:
		// Always reaches the search view: this message re-arms the
		// completion listener, even when another view is active.
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.SearchCompleted, messages.ReplaceCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ViewChanged:
		return a.handleViewChanged(msg)

	case messages.FileSelected:
		// Navigate from any view into the editor
		a.currentView = messages.ViewEditor
		return a, a.editorView.OpenFile(msg.Path)

	case messages.HistorySelected:
		// Re-run a past search in the workspace search view
		a.searchView.SetRecord(msg.Record)
		a.currentView = messages.ViewSearch
		if !a.searchStarted {
			a.searchStarted = true
			return a, a.searchView.Init()
		}
		return a, nil

	case messages.FilesLoaded:
		a.filesView, cmd = a.filesView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.FileOpened, messages.FileSaved,
		messages.AnnotationsLoaded, messages.AnnotationEdited:
		// Editor lifecycle messages may finish after a navigation
		a.editorView, cmd = a.editorView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		// Forward to settings view
		if a.currentView == messages.ViewSettings {
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewFiles:
			a.filesView, cmd = a.filesView.Update(msg)
		case messages.ViewEditor:
			a.editorView, cmd = a.editorView.Update(msg)
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
		case messages.ViewMenu, messages.ViewSettings, messages.ViewHelp:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewFiles:
		a.filesView, cmd = a.filesView.Update(msg)
	case messages.ViewEditor:
		a.editorView, cmd = a.editorView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// handleViewChanged switches the active view and initialises it.
func (a *App) handleViewChanged(msg messages.ViewChanged) (tea.Model, tea.Cmd) {
	a.currentView = msg.View

	switch msg.View {
	case messages.ViewSearch:
		// The scan listener is armed exactly once; results survive
		// leaving and re-entering the view.
		if !a.searchStarted {
			a.searchStarted = true
			return a, a.searchView.Init()
		}
		return a, nil
	case messages.ViewFiles:
		return a, a.filesView.Load()
	case messages.ViewHistory:
		a.historyView.Reset()
		return a, a.historyView.Load()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a, a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewEditor:
		// Other views don't need special initialisation
	}
	return a, nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewFiles:
		return a.filesView.View()
	case messages.ViewEditor:
		return a.editorView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back / close panel
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Open File:
  /           Filter paths (fuzzy)
  enter       Open selected file
  r           Reload listing

Editor:
  ctrl+f      Find in document
  ctrl+n/p    Next / previous match
  ctrl+h      Replace active match
  ctrl+r      Replace all
  ctrl+s      Save
  ctrl+g      Toggle annotation overlay
  ctrl+a      Accept annotation at cursor

Search Workspace:
  (type)      Live query with match counts
  alt+c/w/x   Case / whole word / regex
  enter       Scan now, or open file from results
  tab         Fold a file's matches
  ctrl+r      Replace across workspace

History:
  enter       Run the selected search again
  c           Clear history

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.filesView.SetDimensions(width, height)
	a.editorView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
