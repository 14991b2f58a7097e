package driven

import (
	"context"

	"github.com/inkstone-labs/inkstone/internal/core/domain"
)

// Workspace provides file enumeration and text I/O for a collection of
// documents addressable by path. Implementations decide which files
// count as text (binary extensions and unreadable encodings are
// excluded from listings).
type Workspace interface {
	// Root returns the workspace root path.
	Root() string

	// ListTextFiles returns the paths of all text files in the
	// workspace, relative to the root, in lexical order.
	ListTextFiles(ctx context.Context) ([]string, error)

	// ReadText reads a file as text. Returns an error wrapping
	// domain.ErrReadFailed for missing or unreadable files.
	ReadText(ctx context.Context, path string) (string, error)

	// WriteText replaces a file's content. Returns an error wrapping
	// domain.ErrWriteFailed if the file cannot be written.
	WriteText(ctx context.Context, path, content string) error

	// Watch emits change events for text files under the root until
	// the context is cancelled. Implementations without watch support
	// return domain.ErrNotSupported.
	Watch(ctx context.Context) (<-chan domain.FileChange, error)
}
