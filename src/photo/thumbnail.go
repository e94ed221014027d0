package photo

import (
	"errors"
	"path/filepath"
	"strings"
)

// ThumbnailExt is the extension of every cached preview.
const ThumbnailExt = ".jpg"

// ThumbnailEntry describes a cached preview image.
type ThumbnailEntry struct {
	Fingerprint  Fingerprint `json:"-"`
	Hash         string      `json:"hash"`
	OriginalStem string      `json:"originalStem"`
	SourcePath   string      `json:"originalPath"`
	CachePath    string      `json:"thumbnailPath"`
	Cached       bool        `json:"cached"`
}

// ThumbnailName is the cache file name for a (stem, fingerprint) pair.
func ThumbnailName(stem string, fp Fingerprint) string {
	return stem + "_" + fp.String() + ThumbnailExt
}

// ThumbnailPath is the cache path for a (stem, fingerprint) pair inside dir.
// It is a pure function of its arguments.
func ThumbnailPath(dir, stem string, fp Fingerprint) string {
	return filepath.Join(dir, ThumbnailName(stem, fp))
}

// ParseThumbnailName splits a cache file name back into stem and fingerprint.
func ParseThumbnailName(name string) (string, Fingerprint, bool) {
	if !strings.HasSuffix(name, ThumbnailExt) {
		return "", 0, false
	}
	base := strings.TrimSuffix(name, ThumbnailExt)
	i := strings.LastIndexByte(base, '_')
	if i <= 0 {
		return "", 0, false
	}
	fp, err := ParseFingerprint(base[i+1:])
	if err != nil {
		return "", 0, false
	}
	return base[:i], fp, true
}

var errNoStem = errors.New("path has no usable file stem")

// Stem returns the file name of path without its extension.
func Stem(path string) (string, error) {
	base := filepath.Base(path)
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", NewError(KindInvalidFileName, path, errNoStem)
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(stem) == "" {
		return "", NewError(KindInvalidFileName, path, errNoStem)
	}
	return stem, nil
}
