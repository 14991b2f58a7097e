package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
	"github.com/inkstone-labs/inkstone/internal/core/ports/driven"
)

// Ensure Workspace implements the interface.
var _ driven.Workspace = (*Workspace)(nil)

// Workspace is an in-memory implementation of driven.Workspace.
// Individual paths can be made to fail reads or writes, so tests can
// exercise the partial-failure paths of workspace scans and replaces.
type Workspace struct {
	root string

	mu        sync.RWMutex
	files     map[string]string
	failReads map[string]bool
	failWrite map[string]bool
	writes    map[string]int
	listErr   error
	changes   chan domain.FileChange
}

// NewWorkspace creates an empty in-memory workspace.
func NewWorkspace(root string) *Workspace {
	return &Workspace{
		root:      root,
		files:     make(map[string]string),
		failReads: make(map[string]bool),
		failWrite: make(map[string]bool),
		writes:    make(map[string]int),
	}
}

// SetFile stores or replaces a file.
func (w *Workspace) SetFile(path, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = content
}

// RemoveFile deletes a file.
func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

// File returns a file's content.
func (w *Workspace) File(path string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	content, ok := w.files[path]
	return content, ok
}

// FailReads makes every ReadText of the path fail.
func (w *Workspace) FailReads(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failReads[path] = true
}

// FailWrites makes every WriteText of the path fail.
func (w *Workspace) FailWrites(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failWrite[path] = true
}

// FailListing makes ListTextFiles fail with the given error.
func (w *Workspace) FailListing(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listErr = err
}

// Root returns the workspace root path.
func (w *Workspace) Root() string {
	return w.root
}

// ListTextFiles returns all file paths in lexical order.
func (w *Workspace) ListTextFiles(_ context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.listErr != nil {
		return nil, w.listErr
	}
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadText reads a file as text.
func (w *Workspace) ReadText(_ context.Context, path string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.failReads[path] {
		return "", fmt.Errorf("reading %s: %w", path, domain.ErrReadFailed)
	}
	content, ok := w.files[path]
	if !ok {
		return "", fmt.Errorf("reading %s: %w", path, domain.ErrReadFailed)
	}
	return content, nil
}

// WriteText replaces a file's content.
func (w *Workspace) WriteText(_ context.Context, path, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.failWrite[path] {
		return fmt.Errorf("writing %s: %w", path, domain.ErrWriteFailed)
	}
	w.files[path] = content
	w.writes[path]++
	return nil
}

// WriteCount returns how many times the path has been written.
func (w *Workspace) WriteCount(path string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.writes[path]
}

// Watch returns a channel the test feeds through EmitChange. The
// channel is created on first call and shared by all watchers.
func (w *Workspace) Watch(_ context.Context) (<-chan domain.FileChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.changes == nil {
		w.changes = make(chan domain.FileChange, 16)
	}
	return w.changes, nil
}

// EmitChange delivers a change event to watchers. No-op before Watch.
func (w *Workspace) EmitChange(change domain.FileChange) {
	w.mu.RLock()
	ch := w.changes
	w.mu.RUnlock()

	if ch != nil {
		ch <- change
	}
}
