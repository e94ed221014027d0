package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileOrganizer performs the filesystem side of an import: bucket creation,
// byte copies and source removal.
type FileOrganizer struct{}

// NewFileOrganizer creates a new file organizer implementation.
func NewFileOrganizer() *FileOrganizer {
	return &FileOrganizer{}
}

// EnsureDir creates dir and its parents. An existing directory is not an error,
// so concurrent callers racing on the same bucket all succeed.
func (o *FileOrganizer) EnsureDir(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// CopyInto copies src into dir under its base name, replacing any file already there.
func (o *FileOrganizer) CopyInto(ctx context.Context, src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	return dst, nil
}

// Delete removes a source file. A missing file is reported.
func (o *FileOrganizer) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return err
	}
	return destination.Close()
}
