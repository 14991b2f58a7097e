package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	t.Run("creates workspace with root", func(t *testing.T) {
		ws := New("/tmp/notes")

		require.NotNil(t, ws)
		assert.Equal(t, "/tmp/notes", ws.Root())
	})

	t.Run("implements Workspace interface", func(t *testing.T) {
		ws := New("/tmp/notes")
		var _ driven.Workspace = ws
	})
}

func TestWorkspace_ListTextFiles(t *testing.T) {
	t.Run("lists text files relative to root in lexical order", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "b.txt"), []byte("beta"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "sub", "a.md"), []byte("alpha"), 0o644))

		ws := New(tempDir)
		paths, err := ws.ListTextFiles(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"b.txt", "sub/a.md"}, paths)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, ".git"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".git", "config"), []byte("ref"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".hidden.txt"), []byte("hidden"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "visible.txt"), []byte("visible"), 0o644))

		ws := New(tempDir)
		paths, err := ws.ListTextFiles(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"visible.txt"}, paths)
	})

	t.Run("skips binary files by extension", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "logo.png"), []byte("not a real png"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "readme.md"), []byte("docs"), 0o644))

		ws := New(tempDir)
		paths, err := ws.ListTextFiles(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"readme.md"}, paths)
	})

	t.Run("skips binary files by content", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "blob"), []byte{0x00, 0x01, 0x02, 'a'}, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes"), []byte("plain text"), 0o644))

		ws := New(tempDir)
		paths, err := ws.ListTextFiles(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"notes"}, paths)
	})

	t.Run("skips files over the size limit", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "big.txt"), []byte("this file is far too large"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "small.txt"), []byte("ok"), 0o644))

		ws := New(tempDir)
		ws.SetMaxFileBytes(10)
		paths, err := ws.ListTextFiles(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"small.txt"}, paths)
	})

	t.Run("respects extra binary extensions", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "trace.log"), []byte("line"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "data.dat"), []byte("line"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "keep.txt"), []byte("line"), 0o644))

		ws := New(tempDir)
		ws.SetExtraBinaryExts([]string{"log", ".dat"})
		paths, err := ws.ListTextFiles(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"keep.txt"}, paths)
	})

	t.Run("returns error for missing root", func(t *testing.T) {
		ws := New("/non/existent/root")

		_, err := ws.ListTextFiles(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "workspace root")
	})

	t.Run("empty directory yields no paths", func(t *testing.T) {
		ws := New(t.TempDir())

		paths, err := ws.ListTextFiles(context.Background())

		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("a"), 0o644))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ws := New(tempDir)
		_, err := ws.ListTextFiles(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWorkspace_ReadText(t *testing.T) {
	t.Run("reads plain text", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("hello"), 0o644))

		ws := New(tempDir)
		text, err := ws.ReadText(context.Background(), "a.txt")

		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("strips UTF-8 BOM", func(t *testing.T) {
		tempDir := t.TempDir()
		content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("bom text")...)
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "bom.txt"), content, 0o644))

		ws := New(tempDir)
		text, err := ws.ReadText(context.Background(), "bom.txt")

		require.NoError(t, err)
		assert.Equal(t, "bom text", text)
	})

	t.Run("decodes UTF-16LE content", func(t *testing.T) {
		tempDir := t.TempDir()
		content := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "wide.txt"), content, 0o644))

		ws := New(tempDir)
		text, err := ws.ReadText(context.Background(), "wide.txt")

		require.NoError(t, err)
		assert.Equal(t, "hi", text)
	})

	t.Run("wraps read failures", func(t *testing.T) {
		ws := New(t.TempDir())

		_, err := ws.ReadText(context.Background(), "missing.txt")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrReadFailed)
	})

	t.Run("rejects paths escaping the root", func(t *testing.T) {
		ws := New(t.TempDir())

		_, err := ws.ReadText(context.Background(), "../outside.txt")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrReadFailed)
	})
}

func TestWorkspace_WriteText(t *testing.T) {
	t.Run("replaces file content", func(t *testing.T) {
		tempDir := t.TempDir()
		target := filepath.Join(tempDir, "a.txt")
		require.NoError(t, os.WriteFile(target, []byte("before"), 0o644))

		ws := New(tempDir)
		err := ws.WriteText(context.Background(), "a.txt", "after")

		require.NoError(t, err)
		content, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "after", string(content))
	})

	t.Run("creates missing file", func(t *testing.T) {
		tempDir := t.TempDir()

		ws := New(tempDir)
		err := ws.WriteText(context.Background(), "new.txt", "created")

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(tempDir, "new.txt"))
		require.NoError(t, err)
		assert.Equal(t, "created", string(content))
	})

	t.Run("preserves file permissions", func(t *testing.T) {
		tempDir := t.TempDir()
		target := filepath.Join(tempDir, "secret.txt")
		require.NoError(t, os.WriteFile(target, []byte("before"), 0o600))

		ws := New(tempDir)
		require.NoError(t, ws.WriteText(context.Background(), "secret.txt", "after"))

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.txt"), []byte("before"), 0o644))

		ws := New(tempDir)
		require.NoError(t, ws.WriteText(context.Background(), "a.txt", "after"))

		entries, err := os.ReadDir(tempDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.txt", entries[0].Name())
	})

	t.Run("wraps write failures", func(t *testing.T) {
		ws := New(t.TempDir())

		err := ws.WriteText(context.Background(), "../outside.txt", "nope")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrWriteFailed)
	})
}

func TestWorkspace_Watch(t *testing.T) {
	t.Run("emits created event for new file", func(t *testing.T) {
		tempDir := t.TempDir()
		ws := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := ws.Watch(ctx)
		require.NoError(t, err)
		require.NotNil(t, changes)

		go func() {
			time.Sleep(100 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(tempDir, "new.txt"), []byte("content"), 0o644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeCreated, change.Type)
			assert.Equal(t, "new.txt", change.Path)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for create event")
		}
	})

	t.Run("emits updated event for modified file", func(t *testing.T) {
		tempDir := t.TempDir()
		target := filepath.Join(tempDir, "doc.md")
		require.NoError(t, os.WriteFile(target, []byte("initial"), 0o644))

		ws := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := ws.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(100 * time.Millisecond)
			_ = os.WriteFile(target, []byte("modified"), 0o644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeUpdated, change.Type)
			assert.Equal(t, "doc.md", change.Path)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for update event")
		}
	})

	t.Run("emits deleted event for removed file", func(t *testing.T) {
		tempDir := t.TempDir()
		target := filepath.Join(tempDir, "old.txt")
		require.NoError(t, os.WriteFile(target, []byte("delete me"), 0o644))

		ws := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := ws.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(100 * time.Millisecond)
			_ = os.Remove(target)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeDeleted, change.Type)
			assert.Equal(t, "old.txt", change.Path)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for delete event")
		}
	})

	t.Run("ignores hidden and binary files", func(t *testing.T) {
		tempDir := t.TempDir()
		ws := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := ws.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(100 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(tempDir, ".hidden.txt"), []byte("no"), 0o644)
			_ = os.WriteFile(filepath.Join(tempDir, "image.png"), []byte("no"), 0o644)
			time.Sleep(100 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(tempDir, "seen.txt"), []byte("yes"), 0o644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, "seen.txt", change.Path)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for visible file event")
		}
	})

	t.Run("watches newly created subdirectories", func(t *testing.T) {
		tempDir := t.TempDir()
		ws := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := ws.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(100 * time.Millisecond)
			_ = os.Mkdir(filepath.Join(tempDir, "sub"), 0o755)
			time.Sleep(200 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(tempDir, "sub", "inner.txt"), []byte("deep"), 0o644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeCreated, change.Type)
			assert.Equal(t, "sub/inner.txt", change.Path)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for subdirectory file event")
		}
	})

	t.Run("returns error for missing root", func(t *testing.T) {
		ws := New("/non/existent/root")

		changes, err := ws.Watch(context.Background())

		require.Error(t, err)
		assert.Nil(t, changes)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		ws := New(t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := ws.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changes:
			if ok {
				for range changes {
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel did not close after cancellation")
		}
	})
}

// TestHandleFsEvent tests the mapping from filesystem events to
// workspace changes.
func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      bool
		setupHidden    bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   domain.ChangeType
	}{
		{
			name:           "create file event",
			setupFile:      true,
			operation:      fsnotify.Create,
			expectedChange: true,
			expectedType:   domain.ChangeCreated,
		},
		{
			name:           "write file event",
			setupFile:      true,
			operation:      fsnotify.Write,
			expectedChange: true,
			expectedType:   domain.ChangeUpdated,
		},
		{
			name:           "remove file event",
			operation:      fsnotify.Remove,
			expectedChange: true,
			expectedType:   domain.ChangeDeleted,
		},
		{
			name:           "rename file event",
			operation:      fsnotify.Rename,
			expectedChange: true,
			expectedType:   domain.ChangeDeleted,
		},
		{
			name:           "chmod event is not a change",
			setupFile:      true,
			operation:      fsnotify.Chmod,
			expectedChange: false,
		},
		{
			name:           "combined write and chmod maps to update",
			setupFile:      true,
			operation:      fsnotify.Write | fsnotify.Chmod,
			expectedChange: true,
			expectedType:   domain.ChangeUpdated,
		},
		{
			name:           "hidden file create is skipped",
			setupHidden:    true,
			operation:      fsnotify.Create,
			expectedChange: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()

			var eventPath string
			switch {
			case tt.setupHidden:
				eventPath = filepath.Join(tempDir, ".hidden.txt")
				require.NoError(t, os.WriteFile(eventPath, []byte("hidden"), 0o644))
			case tt.setupFile:
				eventPath = filepath.Join(tempDir, "test.txt")
				require.NoError(t, os.WriteFile(eventPath, []byte("content"), 0o644))
			default:
				eventPath = filepath.Join(tempDir, "removed.txt")
			}

			watcher, err := fsnotify.NewWatcher()
			require.NoError(t, err)
			defer watcher.Close()

			ws := New(tempDir)
			change := ws.handleFsEvent(watcher, fsnotify.Event{Name: eventPath, Op: tt.operation})

			if tt.expectedChange {
				require.NotNil(t, change)
				assert.Equal(t, tt.expectedType, change.Type)
			} else {
				assert.Nil(t, change)
			}
		})
	}

	t.Run("directory create registers a watch instead", func(t *testing.T) {
		tempDir := t.TempDir()
		subDir := filepath.Join(tempDir, "sub")
		require.NoError(t, os.Mkdir(subDir, 0o755))

		watcher, err := fsnotify.NewWatcher()
		require.NoError(t, err)
		defer watcher.Close()

		ws := New(tempDir)
		change := ws.handleFsEvent(watcher, fsnotify.Event{Name: subDir, Op: fsnotify.Create})

		assert.Nil(t, change)
		assert.Contains(t, watcher.WatchList(), subDir)
	})
}

// TestHasHiddenComponent tests hidden path detection.
func TestHasHiddenComponent(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"file.txt", false},
		{"path/to/file.txt", false},
		{".hidden", true},
		{".git/config", true},
		{"src/.cache/data", true},
		{"file.hidden", false},
		{"directory.name/file", false},
		{".", false},
		{"./file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasHiddenComponent(tt.path))
		})
	}
}

// TestIsTextSample tests text and binary content detection.
func TestIsTextSample(t *testing.T) {
	tests := []struct {
		name     string
		sample   []byte
		expected bool
	}{
		{"empty content", nil, true},
		{"plain ascii", []byte("hello world"), true},
		{"utf8 multibyte", []byte("héllo wörld ☺"), true},
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, true},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'h', 0x00}, true},
		{"null byte", []byte{'a', 0x00, 'b'}, false},
		{"latin-1 text", append([]byte("caf"), 0xE9, ' ', 'a', 'u', ' ', 'l', 'a', 'i', 't'), true},
		{"mostly non printable", []byte{0xFF, 0x01, 0x02, 0x03, 0x04}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isTextSample(tt.sample))
		})
	}
}
