package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inkstone-labs/inkstone/internal/adapters/driven/config/file"
	"github.com/inkstone-labs/inkstone/internal/adapters/driven/docview/textarea"
	"github.com/inkstone-labs/inkstone/internal/adapters/driven/storage/sqlite"
	"github.com/inkstone-labs/inkstone/internal/adapters/driven/workspace/local"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/cli"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui"
	"github.com/inkstone-labs/inkstone/internal/adapters/driving/tui/views/editor"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
	"github.com/inkstone-labs/inkstone/internal/core/services"
	"github.com/inkstone-labs/inkstone/internal/logger"
)

// version is stamped via -ldflags at release time.
var version = "dev"

// store is kept for closing once the command completes.
var store *sqlite.Store

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(buildServices)

	err := cli.Execute()

	if store != nil {
		if cerr := store.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "closing history store: %v\n", cerr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// buildServices wires adapters and services once the persistent flags
// are parsed. Runs before every command; an error aborts the command.
func buildServices(opts cli.BootstrapOptions) error {
	configDir := opts.ConfigDir
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "inkstone")
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	root := opts.WorkspaceRoot
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
	}

	workspace := local.New(root)
	workspace.SetMaxFileBytes(settings.Workspace.MaxFileBytes)
	workspace.SetExtraBinaryExts(settings.Workspace.ExtraBinaryExts)

	s, err := sqlite.NewStore(configDir)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	store = s
	historyStore := s.HistoryStore()

	searchService := services.NewWorkspaceSearch(workspace, historyStore)
	searchService.SetDebounce(time.Duration(settings.Search.DebounceMS) * time.Millisecond)
	searchService.SetWorkers(settings.Search.Workers)
	searchService.SetRateLimit(settings.Search.RatePerSec)
	searchService.SetHistoryKeep(settings.History.Keep)

	cli.SetWorkspace(workspace)
	cli.SetSearchService(searchService)
	cli.SetSettingsService(settingsService)
	cli.SetHistoryStore(historyStore)

	ports := tui.NewPorts(workspace, searchService, settingsService, historyStore)
	ports.NewDocView = func(text string) editor.DocView {
		return textarea.New(text)
	}
	ports.NewTracker = func(view driven.DocumentView) driving.AnnotationTracker {
		return services.NewAnnotationTracker(view)
	}
	ports.NewDocSearch = func(view driven.DocumentView) driving.DocumentSearch {
		return services.NewDocumentSearch(view)
	}
	ports.NewOverlay = func(view driven.DocumentView, tracker driving.AnnotationTracker) driving.OverlayService {
		overlay := services.NewOverlayPositioner(view, tracker)
		overlay.SetTickInterval(time.Duration(settings.Overlay.TickMS) * time.Millisecond)
		overlay.SetHoverWidth(settings.Overlay.HoverWidth)
		return overlay
	}
	cli.SetTUIPorts(ports)

	logger.Debug("Wired workspace=%s config=%s history=%s", root, configDir, s.Path())
	return nil
}
