package engine

import "context"

// Engine is the narrow contract over a database engine's online backup
// primitive. Consistency of the copy is the engine's responsibility;
// concrete implementations live under internal/.
type Engine interface {
	// Open opens an existing database for reading.
	Open(ctx context.Context, path string) (Handle, error)
	// Create opens the database at path for writing, creating it when absent.
	Create(ctx context.Context, path string) (Handle, error)
	// Copy replaces the content of dst with a consistent snapshot of src.
	Copy(ctx context.Context, src, dst Handle) (Stats, error)
}

// Handle is an open database owned by the caller.
type Handle interface {
	Path() string
	Close() error
}

// Stats describes a finished copy.
type Stats struct {
	Pages int `json:"pages"`
	Steps int `json:"steps"`
}
