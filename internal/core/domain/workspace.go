package domain

// ChangeType represents the type of workspace file change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// String returns the human-readable name of the change type.
func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileChange represents a change event observed in the workspace.
// Used to invalidate search results between scans.
type FileChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the file path relative to the workspace root.
	Path string
}
