package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultAppSettings tests that defaults validate
func TestDefaultAppSettings(t *testing.T) {
	defaults := DefaultAppSettings()
	require.NoError(t, defaults.Validate())

	assert.Equal(t, 200, defaults.Search.DebounceMS)
	assert.Equal(t, 4, defaults.Search.Workers)
	assert.Equal(t, 50, defaults.History.Keep)
	assert.Equal(t, int64(10<<20), defaults.Workspace.MaxFileBytes)
}

// TestAppSettings_Validate tests rejection of broken settings
func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"negative debounce", func(s *AppSettings) { s.Search.DebounceMS = -1 }},
		{"zero workers", func(s *AppSettings) { s.Search.Workers = 0 }},
		{"negative rate", func(s *AppSettings) { s.Search.RatePerSec = -0.5 }},
		{"negative context lines", func(s *AppSettings) { s.Search.ContextLines = -1 }},
		{"zero tick", func(s *AppSettings) { s.Overlay.TickMS = 0 }},
		{"zero hover width", func(s *AppSettings) { s.Overlay.HoverWidth = 0 }},
		{"negative keep", func(s *AppSettings) { s.History.Keep = -1 }},
		{"zero max file size", func(s *AppSettings) { s.Workspace.MaxFileBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultAppSettings()
			tt.mutate(&settings)

			err := settings.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
