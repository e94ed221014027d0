package photo

import (
	"path/filepath"
	"strings"
)

// DefaultExtensions is the closed set of camera raw extensions accepted when no
// other set is configured.
// See https://en.wikipedia.org/wiki/Raw_image_format
var DefaultExtensions = []string{
	"3fr", "ari", "arw", "srf", "sr2", "bay", "braw", "cri", "crw", "cr2", "cr3", "cap", "iiq", "eip", "dcs", "dcr", "drf", "k25", "kdc",
	"dng", "erf", "fff", "gpr", "jxs", "mef", "mdc", "mos", "mrw", "nef", "nrw", "orf", "pef", "ptx", "pxn", "r3d", "raf", "raw", "rw2",
	"rwl", "rwz", "srw", "tco", "x3f",
}

// ExtensionFilter decides whether a file is a supported raw image.
type ExtensionFilter struct {
	allowed map[string]struct{}
}

// NewExtensionFilter builds a filter from a list of extensions. Entries are
// matched case-insensitively and may be given with or without a leading dot.
func NewExtensionFilter(extensions []string) ExtensionFilter {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		allowed[ext] = struct{}{}
	}
	return ExtensionFilter{allowed: allowed}
}

// Allowed reports whether path has an extension in the filter's set.
// Files without an extension are never allowed.
func (f ExtensionFilter) Allowed(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	_, ok := f.allowed[strings.ToLower(ext)]
	return ok
}

// Len returns the number of accepted extensions.
func (f ExtensionFilter) Len() int {
	return len(f.allowed)
}
