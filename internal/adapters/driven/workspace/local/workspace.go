// Package local implements the workspace port on a directory tree on
// disk. Listings walk the tree and skip hidden entries, binary files,
// and oversized files; reads normalise Unicode BOMs so callers always
// see UTF-8 text; writes go through a temporary file and a rename.
package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
	"github.com/inkstone-labs/inkstone/internal/logger"
)

const (
	// defaultMaxFileBytes is the largest file returned by listings
	// when no limit is configured.
	defaultMaxFileBytes = 10 << 20

	// watchBuffer is the capacity of the change channel returned by
	// Watch.
	watchBuffer = 16
)

// Ensure Workspace implements the interface.
var _ driven.Workspace = (*Workspace)(nil)

// Workspace provides text file access to a local directory tree.
type Workspace struct {
	root string

	mu           sync.RWMutex
	maxFileBytes int64
	extraExts    map[string]struct{}
}

// New creates a workspace rooted at the given directory.
func New(root string) *Workspace {
	return &Workspace{
		root:         root,
		maxFileBytes: defaultMaxFileBytes,
		extraExts:    make(map[string]struct{}),
	}
}

// SetMaxFileBytes overrides the maximum size of files returned by
// listings. Larger files are skipped.
func (w *Workspace) SetMaxFileBytes(n int64) {
	if n <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.maxFileBytes = n
}

// SetExtraBinaryExts excludes additional file extensions from
// listings, on top of the built-in set. Extensions may be given with
// or without a leading dot.
func (w *Workspace) SetExtraBinaryExts(exts []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.extraExts = make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extraExts[ext] = struct{}{}
	}
}

// Root returns the workspace root path.
func (w *Workspace) Root() string {
	return w.root
}

// ListTextFiles walks the tree and returns the relative paths of all
// text files in lexical order. Hidden entries, binary files, and
// files over the size limit are skipped.
func (w *Workspace) ListTextFiles(ctx context.Context) ([]string, error) {
	if _, err := os.Stat(w.root); err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}

	w.mu.RLock()
	maxBytes := w.maxFileBytes
	w.mu.RUnlock()

	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == w.root {
				return err
			}
			logger.Debug("Skipping unreadable entry %s: %v", path, err)
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || w.looksBinary(name) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxBytes {
			logger.Debug("Skipping oversized file %s (%d bytes)", path, info.Size())
			return nil
		}

		sample, err := readHead(path, sniffSampleSize)
		if err != nil {
			logger.Debug("Skipping unreadable file %s: %v", path, err)
			return nil
		}
		if !isTextSample(sample) {
			return nil
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking workspace: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadText reads a file below the root and returns its content as
// UTF-8 text.
func (w *Workspace) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := w.resolve(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, domain.ErrReadFailed)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		logger.Debug("Read failed for %s: %v", path, err)
		return "", fmt.Errorf("reading %s: %w", path, domain.ErrReadFailed)
	}
	return decodeText(raw), nil
}

// WriteText replaces a file's content. The new content is written to
// a temporary file in the same directory and renamed over the target,
// preserving the original permissions when possible.
func (w *Workspace) WriteText(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.writeAtomic(path, content); err != nil {
		logger.Debug("Write failed for %s: %v", path, err)
		return fmt.Errorf("writing %s: %w", path, domain.ErrWriteFailed)
	}
	return nil
}

func (w *Workspace) writeAtomic(path, content string) error {
	abs, err := w.resolve(path)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".inkstone-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	_ = os.Chmod(tmpPath, mode)
	if err := os.Rename(tmpPath, abs); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Watch emits change events for text files under the root until the
// context is cancelled. Newly created subdirectories are added to the
// watch as they appear.
func (w *Workspace) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	if _, err := os.Stat(w.root); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addWatchDirs(watcher, w.root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching workspace: %w", err)
	}

	changes := make(chan domain.FileChange, watchBuffer)
	go w.watchLoop(ctx, watcher, changes)
	return changes, nil
}

// addWatchDirs registers the root and every visible subdirectory.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (w *Workspace) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.FileChange) {
	defer close(changes)
	defer func() {
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			change := w.handleFsEvent(watcher, event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Workspace watcher error: %v", err)
		}
	}
}

// handleFsEvent maps a filesystem event onto a workspace change.
// Directory, hidden, and binary events yield nil; newly created
// directories are added to the watch instead.
func (w *Workspace) handleFsEvent(watcher *fsnotify.Watcher, event fsnotify.Event) *domain.FileChange {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if hasHiddenComponent(rel) {
		return nil
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if event.Op.Has(fsnotify.Create) {
			if err := watcher.Add(event.Name); err != nil {
				logger.Warn("Watching new directory %s: %v", rel, err)
			}
		}
		return nil
	}

	if w.looksBinary(rel) {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		return &domain.FileChange{Type: domain.ChangeCreated, Path: rel}
	case event.Op.Has(fsnotify.Write):
		return &domain.FileChange{Type: domain.ChangeUpdated, Path: rel}
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return &domain.FileChange{Type: domain.ChangeDeleted, Path: rel}
	default:
		return nil
	}
}

// looksBinary reports whether the path's extension marks it as binary.
func (w *Workspace) looksBinary(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	if _, ok := binaryExtensions[ext]; ok {
		return true
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.extraExts[ext]
	return ok
}

// resolve joins a relative path to the root, rejecting absolute paths
// and escapes above the root.
func (w *Workspace) resolve(path string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(path))
	if rel == "." || rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %q: %w", path, domain.ErrInvalidInput)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q: %w", path, domain.ErrInvalidInput)
	}
	return filepath.Join(w.root, rel), nil
}

// hasHiddenComponent reports whether any component of a relative
// slash path starts with a dot. "." and ".." do not count.
func hasHiddenComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
