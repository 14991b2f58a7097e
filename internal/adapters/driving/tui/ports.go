// Package tui provides an interactive terminal user interface for inkstone.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/editor"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
)

// Ports aggregates the driving ports and factories required by the TUI.
// This provides a single injection point for dependency injection.
//
// Tracker, document search and overlay sessions are scoped to one open
// document, so the TUI receives factories instead of instances and
// builds a fresh set each time a file is opened.
type Ports struct {
	// Workspace provides file listing and text I/O.
	Workspace driven.Workspace

	// Search runs workspace-wide scans.
	Search driving.WorkspaceSearch

	// Settings manages application settings.
	Settings driving.Settings

	// History persists completed workspace searches.
	History driven.HistoryStore

	// NewDocView builds the host document component for a file's text.
	NewDocView func(text string) editor.DocView

	// NewTracker builds an annotation tracker bound to a document view.
	NewTracker func(view driven.DocumentView) driving.AnnotationTracker

	// NewDocSearch builds a find/replace session bound to a document view.
	NewDocSearch func(view driven.DocumentView) driving.DocumentSearch

	// NewOverlay builds an overlay positioner bound to a document view
	// and its tracker.
	NewOverlay func(view driven.DocumentView, tracker driving.AnnotationTracker) driving.OverlayService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	workspace driven.Workspace,
	search driving.WorkspaceSearch,
	settings driving.Settings,
	history driven.HistoryStore,
) *Ports {
	return &Ports{
		Workspace: workspace,
		Search:    search,
		Settings:  settings,
		History:   history,
	}
}

// EditorDeps assembles the editor view's dependency bundle.
func (p *Ports) EditorDeps() editor.Deps {
	return editor.Deps{
		Workspace:    p.Workspace,
		NewDocView:   p.NewDocView,
		NewTracker:   p.NewTracker,
		NewDocSearch: p.NewDocSearch,
		NewOverlay:   p.NewOverlay,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Workspace == nil {
		return ErrMissingWorkspace
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.NewDocView == nil {
		return ErrMissingDocViewFactory
	}
	if p.NewTracker == nil || p.NewDocSearch == nil || p.NewOverlay == nil {
		return ErrMissingSessionFactories
	}
	return nil
}
