package importing

import (
	"context"
)

// FileOrganizer performs the filesystem side of an import.
type FileOrganizer interface {
	// EnsureDir creates dir and its parents; an existing dir is not an error.
	EnsureDir(ctx context.Context, dir string) error
	// CopyInto copies src into dir under its base name, overwriting.
	CopyInto(ctx context.Context, src, dir string) (string, error)
	// Delete removes a source file.
	Delete(ctx context.Context, path string) error
}
