package driving

import "github.com/inkstone-labs/inkstone/internal/core/domain"

// Settings manages application settings.
type Settings interface {
	// Get retrieves current application settings, with defaults
	// applied for anything unset.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
