package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/contre95/rawsolid/src/photo"
)

// Discoverer walks a source tree and returns the raw files it contains.
type Discoverer struct {
	filter photo.ExtensionFilter
}

// NewDiscoverer creates a Discoverer that keeps files accepted by filter.
func NewDiscoverer(filter photo.ExtensionFilter) *Discoverer {
	return &Discoverer{filter: filter}
}

// Discover returns every non-hidden file under root whose extension is allowed.
// Hidden directories are skipped wholesale. Paths are absolute and in walk order.
func (d *Discoverer) Discover(root string) ([]photo.FileRecord, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, photo.NewError(photo.KindPathNotFound, root, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, photo.NewError(photo.KindPathNotFound, abs, err)
		}
		return nil, photo.NewError(photo.KindMetadataError, abs, err)
	}

	var records []photo.FileRecord
	err = filepath.WalkDir(abs, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return photo.NewError(photo.KindMetadataError, path, walkErr)
		}
		if path != abs && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !d.filter.Allowed(path) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return photo.NewError(photo.KindMetadataError, path, err)
		}
		rec := photo.FileRecord{Path: path, IsFile: info.Mode().IsRegular()}
		if rec.IsFile {
			size := uint64(info.Size())
			rec.Size = &size
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		if photo.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to walk %s: %w", abs, err)
	}
	return records, nil
}
