// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/messages"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/styles"
	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
)

// field is one editable settings value.
type field struct {
	label string
	get   func(s *domain.AppSettings) string
	set   func(s *domain.AppSettings, raw string) error
}

// fields returns the editable settings in display order.
func fields() []field {
	return []field{
		{
			label: "Search debounce (ms)",
			get:   func(s *domain.AppSettings) string { return strconv.Itoa(s.Search.DebounceMS) },
			set: func(s *domain.AppSettings, raw string) error {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%w: debounce must be a number", domain.ErrInvalidInput)
				}
				s.Search.DebounceMS = n
				return nil
			},
		},
		{
			label: "Search workers",
			get:   func(s *domain.AppSettings) string { return strconv.Itoa(s.Search.Workers) },
			set: func(s *domain.AppSettings, raw string) error {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%w: workers must be a number", domain.ErrInvalidInput)
				}
				s.Search.Workers = n
				return nil
			},
		},
		{
			label: "Search rate limit (reads/sec, 0 = off)",
			get: func(s *domain.AppSettings) string {
				return strconv.FormatFloat(s.Search.RatePerSec, 'f', -1, 64)
			},
			set: func(s *domain.AppSettings, raw string) error {
				f, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("%w: rate must be a number", domain.ErrInvalidInput)
				}
				s.Search.RatePerSec = f
				return nil
			},
		},
		{
			label: "Search context lines",
			get:   func(s *domain.AppSettings) string { return strconv.Itoa(s.Search.ContextLines) },
			set: func(s *domain.AppSettings, raw string) error {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%w: context lines must be a number", domain.ErrInvalidInput)
				}
				s.Search.ContextLines = n
				return nil
			},
		},
		{
			label: "Overlay tick (ms)",
			get:   func(s *domain.AppSettings) string { return strconv.Itoa(s.Overlay.TickMS) },
			set: func(s *domain.AppSettings, raw string) error {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%w: overlay tick must be a number", domain.ErrInvalidInput)
				}
				s.Overlay.TickMS = n
				return nil
			},
		},
		{
			label: "Overlay hover width",
			get: func(s *domain.AppSettings) string {
				return strconv.FormatFloat(s.Overlay.HoverWidth, 'f', -1, 64)
			},
			set: func(s *domain.AppSettings, raw string) error {
				f, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("%w: hover width must be a number", domain.ErrInvalidInput)
				}
				s.Overlay.HoverWidth = f
				return nil
			},
		},
		{
			label: "History keep",
			get:   func(s *domain.AppSettings) string { return strconv.Itoa(s.History.Keep) },
			set: func(s *domain.AppSettings, raw string) error {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("%w: history keep must be a number", domain.ErrInvalidInput)
				}
				s.History.Keep = n
				return nil
			},
		},
		{
			label: "Max scanned file size (bytes)",
			get: func(s *domain.AppSettings) string {
				return strconv.FormatInt(s.Workspace.MaxFileBytes, 10)
			},
			set: func(s *domain.AppSettings, raw string) error {
				n, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("%w: file size must be a number", domain.ErrInvalidInput)
				}
				s.Workspace.MaxFileBytes = n
				return nil
			},
		},
	}
}

// sectionLabels maps a field index to the section heading printed
// above it.
var sectionLabels = map[int]string{
	0: "Search",
	4: "Overlay",
	6: "History",
	7: "Workspace",
}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.Settings

	settings *domain.AppSettings
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.Settings) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	input := textinput.New()
	input.Placeholder = "value"
	input.CharLimit = 32
	input.Width = 20

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           input,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved."
		v.stopEditing()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		return v.handleEditKeys(msg)
	}
	return v.handleListKeys(msg)
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	all := fields()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(all)-1 {
			v.selected++
		}
	case "enter":
		if v.settings == nil {
			return v, nil
		}
		v.editing = true
		v.notice = ""
		v.input.SetValue(all[v.selected].get(v.settings))
		v.input.CursorEnd()
		return v, v.input.Focus()
	case "d":
		return v, v.restoreDefaults()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.stopEditing()
		v.err = nil
		return v, nil
	case "enter":
		return v, v.saveField(v.selected, v.input.Value())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// saveField parses the raw value into the selected field and persists
// the result.
func (v *View) saveField(index int, raw string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		if v.settings == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings not loaded")}
		}

		updated := *v.settings
		if err := fields()[index].set(&updated, strings.TrimSpace(raw)); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		return messages.SettingsSaved{Err: v.settingsService.Save(&updated)}
	}
}

// restoreDefaults persists the default settings.
func (v *View) restoreDefaults() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		defaults := v.settingsService.GetDefaults()
		return messages.SettingsSaved{Err: v.settingsService.Save(&defaults)}
	}
}

func (v *View) stopEditing() {
	v.editing = false
	v.input.SetValue("")
	v.input.Blur()
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	all := fields()
	for i, f := range all {
		if heading, ok := sectionLabels[i]; ok {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(v.styles.Subtitle.Render(heading))
			b.WriteString("\n")
		}

		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		if v.editing && i == v.selected {
			b.WriteString(v.styles.Selected.Render(fmt.Sprintf("%s%s: ", indicator, f.label)))
			b.WriteString(v.input.View())
			b.WriteString("\n")
			continue
		}

		line := fmt.Sprintf("%s%s: %s", indicator, f.label, f.get(v.settings))
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if err := v.settings.Validate(); err != nil {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] edit  [d] restore defaults  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.selected = 0
	v.err = nil
	v.notice = ""
	v.stopEditing()
}
