package services

import (
	"fmt"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.Settings = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySearchDebounce  = "search.debounce_ms"
	keySearchWorkers   = "search.workers"
	keySearchRate      = "search.rate_per_sec"
	keySearchContext   = "search.context_lines"
	keyOverlayTick     = "overlay.tick_ms"
	keyOverlayHover    = "overlay.hover_width"
	keyHistoryKeep     = "history.keep"
	keyWorkspaceMax    = "workspace.max_file_bytes"
	keyWorkspaceBinary = "workspace.extra_binary_exts"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, with defaults applied
// for anything unset.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			DebounceMS:   s.getInt(keySearchDebounce, defaults.Search.DebounceMS),
			Workers:      s.getInt(keySearchWorkers, defaults.Search.Workers),
			RatePerSec:   s.getFloat(keySearchRate, defaults.Search.RatePerSec),
			ContextLines: s.getInt(keySearchContext, defaults.Search.ContextLines),
		},
		Overlay: domain.OverlaySettings{
			TickMS:     s.getInt(keyOverlayTick, defaults.Overlay.TickMS),
			HoverWidth: s.getFloat(keyOverlayHover, defaults.Overlay.HoverWidth),
		},
		History: domain.HistorySettings{
			Keep: s.getInt(keyHistoryKeep, defaults.History.Keep),
		},
		Workspace: domain.WorkspaceSettings{
			MaxFileBytes:    s.getInt64(keyWorkspaceMax, defaults.Workspace.MaxFileBytes),
			ExtraBinaryExts: s.configStore.GetStringSlice(keyWorkspaceBinary),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keySearchDebounce, settings.Search.DebounceMS); err != nil {
		return fmt.Errorf("save search debounce: %w", err)
	}
	if err := s.configStore.Set(keySearchWorkers, settings.Search.Workers); err != nil {
		return fmt.Errorf("save search workers: %w", err)
	}
	if err := s.configStore.Set(keySearchRate, settings.Search.RatePerSec); err != nil {
		return fmt.Errorf("save search rate: %w", err)
	}
	if err := s.configStore.Set(keySearchContext, settings.Search.ContextLines); err != nil {
		return fmt.Errorf("save search context lines: %w", err)
	}
	if err := s.configStore.Set(keyOverlayTick, settings.Overlay.TickMS); err != nil {
		return fmt.Errorf("save overlay tick: %w", err)
	}
	if err := s.configStore.Set(keyOverlayHover, settings.Overlay.HoverWidth); err != nil {
		return fmt.Errorf("save overlay hover width: %w", err)
	}
	if err := s.configStore.Set(keyHistoryKeep, settings.History.Keep); err != nil {
		return fmt.Errorf("save history keep: %w", err)
	}
	if err := s.configStore.Set(keyWorkspaceMax, settings.Workspace.MaxFileBytes); err != nil {
		return fmt.Errorf("save workspace max file size: %w", err)
	}
	if len(settings.Workspace.ExtraBinaryExts) > 0 {
		if err := s.configStore.Set(keyWorkspaceBinary, settings.Workspace.ExtraBinaryExts); err != nil {
			return fmt.Errorf("save workspace binary extensions: %w", err)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return int64(s.configStore.GetInt(key))
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}
