package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// TestViewType_String tests all ViewType string representations
func TestViewType_String(t *testing.T) {
	tests := []struct {
		name     string
		view     ViewType
		expected string
	}{
		{"ViewMenu", ViewMenu, "menu"},
		{"ViewFiles", ViewFiles, "files"},
		{"ViewEditor", ViewEditor, "editor"},
		{"ViewSearch", ViewSearch, "search"},
		{"ViewHistory", ViewHistory, "history"},
		{"ViewSettings", ViewSettings, "settings"},
		{"ViewHelp", ViewHelp, "help"},
		{"UnknownView", ViewType(99), "unknown"},
		{"NegativeView", ViewType(-1), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

// TestViewChanged tests the ViewChanged message type
func TestViewChanged(t *testing.T) {
	t.Run("to editor view", func(t *testing.T) {
		msg := ViewChanged{View: ViewEditor}
		assert.Equal(t, ViewEditor, msg.View)
	})

	t.Run("to search view", func(t *testing.T) {
		msg := ViewChanged{View: ViewSearch}
		assert.Equal(t, ViewSearch, msg.View)
	})
}

// TestFileOpened tests the FileOpened message type
func TestFileOpened(t *testing.T) {
	t.Run("with content", func(t *testing.T) {
		msg := FileOpened{
			Path:    "notes/draft.md",
			Content: "# Draft\n",
			Err:     nil,
		}

		assert.Equal(t, "notes/draft.md", msg.Path)
		assert.Equal(t, "# Draft\n", msg.Content)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("read failed")
		msg := FileOpened{Path: "gone.md", Err: err}

		assert.Equal(t, "gone.md", msg.Path)
		assert.Error(t, msg.Err)
	})
}

// TestSearchCompleted tests the SearchCompleted message type
func TestSearchCompleted(t *testing.T) {
	t.Run("with results", func(t *testing.T) {
		results := []domain.FileResult{
			{Path: "a.md", Matches: []domain.LineMatch{{LineNumber: 1, LineText: "hit"}}},
			{Path: "b.md"},
		}
		msg := SearchCompleted{Results: results}

		require.Len(t, msg.Results, 2)
		assert.Equal(t, "a.md", msg.Results[0].Path)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("scan failed")
		msg := SearchCompleted{Err: err}

		assert.Nil(t, msg.Results)
		assert.Error(t, msg.Err)
		assert.Equal(t, "scan failed", msg.Err.Error())
	})
}

// TestReplaceCompleted tests the ReplaceCompleted message type
func TestReplaceCompleted(t *testing.T) {
	t.Run("with report", func(t *testing.T) {
		msg := ReplaceCompleted{
			Report: domain.ReplaceReport{FilesChanged: 2, MatchesReplaced: 5},
		}

		assert.Equal(t, 2, msg.Report.FilesChanged)
		assert.Equal(t, 5, msg.Report.MatchesReplaced)
		assert.NoError(t, msg.Err)
	})

	t.Run("with partial failure", func(t *testing.T) {
		msg := ReplaceCompleted{
			Report: domain.ReplaceReport{FilesChanged: 1, MatchesReplaced: 2, FilesFailed: 1},
		}

		assert.Equal(t, 1, msg.Report.FilesFailed)
		assert.NoError(t, msg.Err)
	})
}

// TestAnnotationEdited tests the AnnotationEdited message type
func TestAnnotationEdited(t *testing.T) {
	msg := AnnotationEdited{ID: "ann-1"}
	assert.Equal(t, "ann-1", msg.ID)
}

// TestAnnotationsLoaded tests the AnnotationsLoaded message type
func TestAnnotationsLoaded(t *testing.T) {
	t.Run("with annotations", func(t *testing.T) {
		msg := AnnotationsLoaded{
			Annotations: []domain.Annotation{{ID: "ann-1", Text: "generated text"}},
		}
		assert.Len(t, msg.Annotations, 1)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		msg := AnnotationsLoaded{Err: assert.AnError}
		assert.Error(t, msg.Err)
		assert.Empty(t, msg.Annotations)
	})
}

// TestHistoryLoaded tests the HistoryLoaded message type
func TestHistoryLoaded(t *testing.T) {
	t.Run("with records", func(t *testing.T) {
		records := []domain.SearchRecord{
			{ID: "rec-1", Pattern: "todo"},
		}
		msg := HistoryLoaded{Records: records}

		require.Len(t, msg.Records, 1)
		assert.Equal(t, "todo", msg.Records[0].Pattern)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("history unavailable")
		msg := HistoryLoaded{Err: err}

		assert.Nil(t, msg.Records)
		assert.Error(t, msg.Err)
	})
}

// TestSettingsLoaded tests the SettingsLoaded message type
func TestSettingsLoaded(t *testing.T) {
	t.Run("with settings", func(t *testing.T) {
		settings := &domain.AppSettings{
			Search: domain.SearchSettings{DebounceMS: 250},
		}
		msg := SettingsLoaded{Settings: settings}

		require.NotNil(t, msg.Settings)
		assert.Equal(t, 250, msg.Settings.Search.DebounceMS)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("failed to load settings")
		msg := SettingsLoaded{Err: err}

		assert.Nil(t, msg.Settings)
		assert.Error(t, msg.Err)
	})
}

// TestErrorOccurred tests the ErrorOccurred message type
func TestErrorOccurred(t *testing.T) {
	err := errors.New("something went wrong")
	msg := ErrorOccurred{Err: err}

	assert.Error(t, msg.Err)
	assert.Equal(t, "something went wrong", msg.Err.Error())
}
