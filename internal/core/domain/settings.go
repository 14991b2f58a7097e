package domain

import "fmt"

// SearchSettings configure workspace search behaviour.
type SearchSettings struct {
	// DebounceMS is the delay in milliseconds coalescing rapid query
	// edits before a workspace scan starts.
	DebounceMS int

	// Workers is the number of files scanned concurrently.
	Workers int

	// RatePerSec throttles file reads during a scan. Zero disables
	// throttling.
	RatePerSec float64

	// ContextLines is the number of surrounding lines shown with each
	// match in CLI output. Zero shows only the matched line.
	ContextLines int
}

// OverlaySettings configure annotation overlay positioning.
type OverlaySettings struct {
	// TickMS is the positioning loop interval in milliseconds.
	TickMS int

	// HoverWidth is the width of the hover hit rectangle, in the
	// host's coordinate units.
	HoverWidth float64
}

// HistorySettings configure search history retention.
type HistorySettings struct {
	// Keep is the number of records retained after pruning.
	Keep int
}

// WorkspaceSettings configure workspace file handling.
type WorkspaceSettings struct {
	// MaxFileBytes is the largest file size scanned. Larger files
	// are skipped.
	MaxFileBytes int64

	// ExtraBinaryExts lists additional file extensions excluded from
	// listings, on top of the built-in set.
	ExtraBinaryExts []string
}

// AppSettings aggregate all application settings.
type AppSettings struct {
	Search    SearchSettings
	Overlay   OverlaySettings
	History   HistorySettings
	Workspace WorkspaceSettings
}

// DefaultAppSettings returns the settings used when nothing is
// configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			DebounceMS:   200,
			Workers:      4,
			RatePerSec:   0,
			ContextLines: 0,
		},
		Overlay: OverlaySettings{
			TickMS:     50,
			HoverWidth: 360,
		},
		History: HistorySettings{
			Keep: 50,
		},
		Workspace: WorkspaceSettings{
			MaxFileBytes: 10 << 20,
		},
	}
}

// Validate checks the settings for values that would break scanning.
func (s AppSettings) Validate() error {
	if s.Search.DebounceMS < 0 {
		return fmt.Errorf("%w: search debounce must not be negative", ErrInvalidInput)
	}
	if s.Search.Workers < 1 {
		return fmt.Errorf("%w: search workers must be at least 1", ErrInvalidInput)
	}
	if s.Search.RatePerSec < 0 {
		return fmt.Errorf("%w: search rate must not be negative", ErrInvalidInput)
	}
	if s.Search.ContextLines < 0 {
		return fmt.Errorf("%w: search context lines must not be negative", ErrInvalidInput)
	}
	if s.Overlay.TickMS < 1 {
		return fmt.Errorf("%w: overlay tick must be at least 1ms", ErrInvalidInput)
	}
	if s.Overlay.HoverWidth <= 0 {
		return fmt.Errorf("%w: overlay hover width must be positive", ErrInvalidInput)
	}
	if s.History.Keep < 0 {
		return fmt.Errorf("%w: history keep must not be negative", ErrInvalidInput)
	}
	if s.Workspace.MaxFileBytes < 1 {
		return fmt.Errorf("%w: workspace max file size must be positive", ErrInvalidInput)
	}
	return nil
}
