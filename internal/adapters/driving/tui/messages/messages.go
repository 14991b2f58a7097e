// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewFiles is the workspace file picker.
	ViewFiles
	// ViewEditor is the document editor with annotation tracking.
	ViewEditor
	// ViewSearch is the workspace search and replace view.
	ViewSearch
	// ViewHistory lists past workspace searches.
	ViewHistory
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewFiles:
		return "files"
	case ViewEditor:
		return "editor"
	case ViewSearch:
		return "search"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// FilesLoaded carries the workspace file listing.
type FilesLoaded struct {
	Paths []string
	Err   error
}

// FileSelected signals a workspace file was chosen for editing.
type FileSelected struct {
	Path string
}

// FileOpened carries the content of an opened file.
type FileOpened struct {
	Path    string
	Content string
	Err     error
}

// FileSaved signals a save attempt finished.
type FileSaved struct {
	Path string
	Err  error
}

// SearchCompleted carries workspace scan results back to the model.
type SearchCompleted struct {
	Results []domain.FileResult
	Err     error
}

// ScanDelivered carries results pushed by the search session's
// completion observer into the update loop. Unlike SearchCompleted it
// also re-arms the observer bridge, so it must reach the search view
// even when another view is active.
type ScanDelivered struct {
	Results []domain.FileResult
}

// ReplaceCompleted carries the outcome of a workspace replace-all.
type ReplaceCompleted struct {
	Report domain.ReplaceReport
	Err    error
}

// AnnotationEdited signals a user edit touched an annotation.
type AnnotationEdited struct {
	ID string
}

// AnnotationsLoaded carries a document's sidecar annotations.
type AnnotationsLoaded struct {
	Annotations []domain.Annotation
	Err         error
}

// HistoryLoaded carries recent search records.
type HistoryLoaded struct {
	Records []domain.SearchRecord
	Err     error
}

// HistorySelected signals a past search was chosen to run again.
type HistorySelected struct {
	Record domain.SearchRecord
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
