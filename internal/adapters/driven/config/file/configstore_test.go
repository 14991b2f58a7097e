package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(home, ".inkstone", "config.toml"), store.Path())

	// Cleanup
	_ = os.Remove(store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("workspace.root", "/home/user/notes")
	require.NoError(t, err)

	val, ok := store.Get("workspace.root")
	assert.True(t, ok)
	assert.Equal(t, "/home/user/notes", val)
}

func TestConfigStore_GetString(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("workspace.root", "/srv/docs")
	require.NoError(t, err)

	val := store.GetString("workspace.root")
	assert.Equal(t, "/srv/docs", val)

	// Non-existent key
	val = store.GetString("nonexistent")
	assert.Equal(t, "", val)

	// Wrong type
	err = store.Set("search.workers", 4)
	require.NoError(t, err)
	val = store.GetString("search.workers")
	assert.Equal(t, "", val)
}

func TestConfigStore_GetInt(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("search.debounce_ms", 250)
	require.NoError(t, err)

	val := store.GetInt("search.debounce_ms")
	assert.Equal(t, 250, val)

	// Non-existent key
	val = store.GetInt("nonexistent")
	assert.Equal(t, 0, val)

	// Wrong type
	err = store.Set("workspace.root", "not an int")
	require.NoError(t, err)
	val = store.GetInt("workspace.root")
	assert.Equal(t, 0, val)
}

func TestConfigStore_GetInt_Int64Type(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// TOML unmarshals integers as int64
	store.mu.Lock()
	store.data["history.keep"] = int64(75)
	store.mu.Unlock()

	val := store.GetInt("history.keep")
	assert.Equal(t, 75, val)
}

func TestConfigStore_GetBool(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("verbose", true)
	require.NoError(t, err)

	val := store.GetBool("verbose")
	assert.True(t, val)

	err = store.Set("overlay.enabled", false)
	require.NoError(t, err)

	val = store.GetBool("overlay.enabled")
	assert.False(t, val)

	// Non-existent key
	val = store.GetBool("nonexistent")
	assert.False(t, val)

	// Wrong type
	err = store.Set("workspace.root", "true")
	require.NoError(t, err)
	val = store.GetBool("workspace.root")
	assert.False(t, val)
}

func TestConfigStore_GetFloat(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("overlay.hover_width", 360.5)
	require.NoError(t, err)

	val := store.GetFloat("overlay.hover_width")
	assert.InDelta(t, 360.5, val, 0.0001)

	// TOML integers are accepted too
	store.mu.Lock()
	store.data["search.rate_per_sec"] = int64(20)
	store.mu.Unlock()
	assert.InDelta(t, 20.0, store.GetFloat("search.rate_per_sec"), 0.0001)

	// Non-existent key
	assert.Zero(t, store.GetFloat("nonexistent"))

	// Wrong type
	err = store.Set("workspace.root", "3.14")
	require.NoError(t, err)
	assert.Zero(t, store.GetFloat("workspace.root"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("workspace.extra_binary_exts", []string{".log", ".lock"})
	require.NoError(t, err)

	val := store.GetStringSlice("workspace.extra_binary_exts")
	assert.Equal(t, []string{".log", ".lock"}, val)

	// TOML arrays unmarshal as []any
	store.mu.Lock()
	store.data["mixed"] = []any{".dat", 7, ".idx"}
	store.mu.Unlock()
	assert.Equal(t, []string{".dat", ".idx"}, store.GetStringSlice("mixed"))

	// Non-existent key
	assert.Nil(t, store.GetStringSlice("nonexistent"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	// Create store and set values
	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store1.Set("workspace.root", "/srv/docs"))
	require.NoError(t, store1.Set("search.workers", 8))
	require.NoError(t, store1.Set("verbose", true))

	// Create new store instance - should load from file
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/docs", store2.GetString("workspace.root"))
	assert.Equal(t, 8, store2.GetInt("search.workers"))
	assert.True(t, store2.GetBool("verbose"))
}

func TestConfigStore_Load_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte(`
[search]
debounce_ms = 150
workers = 2

[overlay]
tick_ms = 25
hover_width = 400.0
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 150, store.GetInt("search.debounce_ms"))
	assert.Equal(t, 2, store.GetInt("search.workers"))
	assert.Equal(t, 25, store.GetInt("overlay.tick_ms"))
	assert.InDelta(t, 400.0, store.GetFloat("overlay.hover_width"), 0.0001)
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	tmpDir := t.TempDir()

	// Create store - no config file exists yet
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// Should start empty with no error
	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("workspace.root", "/srv/docs")
	require.NoError(t, err)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Create an empty config file
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600)
	require.NoError(t, err)

	// Store should handle empty file gracefully
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Concurrency(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetString(key)
			_ = store.GetBool(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestConfigStore_OverwriteValue(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("workspace.root", "/srv/docs")
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", store.GetString("workspace.root"))

	err = store.Set("workspace.root", "/srv/notes")
	require.NoError(t, err)
	assert.Equal(t, "/srv/notes", store.GetString("workspace.root"))
}

// TestNewConfigStore_MkdirAllError tests error handling when directory creation fails.
func TestNewConfigStore_MkdirAllError(t *testing.T) {
	// On Unix systems, a path under /dev/null cannot be created
	invalidPath := "/dev/null/cannot/create/dirs"

	store, err := NewConfigStore(invalidPath)

	assert.Error(t, err)
	assert.Nil(t, store)
}

// TestNewConfigStore_LoadCorruptedFile tests error handling when loading corrupted TOML.
func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	corruptedContent := []byte("this is not valid TOML {{{[[")
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), corruptedContent, 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

// TestConfigStore_Save_Explicit tests the public Save method.
func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["manual_key"] = "manual_value"
	store.mu.Unlock()

	err = store.Save()
	require.NoError(t, err)

	// Reload to verify
	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val := store2.GetString("manual_key")
	assert.Equal(t, "manual_value", val)
}

// TestConfigStore_Save_WriteError tests error handling when the file cannot be written.
func TestConfigStore_Save_WriteError(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	err = store.Set("workspace.root", "/srv/docs")
	require.NoError(t, err)

	// Replace the file with a directory to cause write error
	err = os.Remove(store.Path())
	require.NoError(t, err)
	err = os.Mkdir(store.Path(), 0700)
	require.NoError(t, err)

	err = store.Set("another", "value")
	assert.Error(t, err)
}

// TestConfigStore_Load_InvalidTOML tests error handling when loading invalid TOML.
func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	err = store.Set("valid", "data")
	require.NoError(t, err)

	// Now corrupt the TOML file
	corruptedContent := []byte("invalid toml syntax ][}{")
	err = os.WriteFile(store.Path(), corruptedContent, 0600)
	require.NoError(t, err)

	err = store.Load()
	assert.Error(t, err)
}

// TestConfigStore_SetWithUnmarshallableValue tests values that cannot be marshalled.
func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	// Channels cannot be marshalled to TOML
	ch := make(chan int)
	err = store.Set("channel", ch)

	assert.Error(t, err)
}

// TestNewConfigStore_WithNestedDirectory tests creating config in nested directories.
func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nestedPath := filepath.Join(tmpDir, "nested", "deep", "path")

	store, err := NewConfigStore(nestedPath)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}
