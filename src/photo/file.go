package photo

import (
	"fmt"
	"strconv"

	"github.com/docker/go-units"
)

// FileRecord is a discovered file. Path is absolute.
type FileRecord struct {
	Path   string  `json:"path"`
	IsFile bool    `json:"isFile"`
	Size   *uint64 `json:"size,omitempty"`
}

// HumanSize renders the record size for logs and the UI.
func (r FileRecord) HumanSize() string {
	if r.Size == nil {
		return "-"
	}
	return units.HumanSize(float64(*r.Size))
}

// Fingerprint is the content hash of a file, used as the thumbnail cache key.
type Fingerprint uint64

// String renders the fingerprint as 16 lowercase hex digits.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ParseFingerprint is the inverse of Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("fingerprint must have 16 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	return Fingerprint(v), nil
}

// Volume is a mounted disk that can serve as an import source.
type Volume struct {
	Name       string `json:"name"`
	MountPoint string `json:"mountPoint"`
	Device     string `json:"device,omitempty"`
	FileSystem string `json:"fileSystem,omitempty"`
}
