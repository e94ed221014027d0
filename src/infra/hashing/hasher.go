// Package hashing fingerprints raw files by content.
package hashing

import (
	"errors"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/contre95/rawsolid/src/photo"
)

const (
	DefaultChunkSize = 64 * 1024
	MinChunkSize     = 8 * 1024
)

// Hasher computes XXH64 fingerprints of whole files.
type Hasher struct {
	chunkSize int
}

// NewHasher returns a Hasher reading chunkSize bytes at a time.
// Values below MinChunkSize are raised to it; zero selects DefaultChunkSize.
func NewHasher(chunkSize int) *Hasher {
	switch {
	case chunkSize == 0:
		chunkSize = DefaultChunkSize
	case chunkSize < MinChunkSize:
		chunkSize = MinChunkSize
	}
	return &Hasher{chunkSize: chunkSize}
}

// HashFile returns the fingerprint of the file at path.
func (h *Hasher) HashFile(path string) (photo.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, photo.NewError(photo.KindIoError, path, err)
	}
	defer f.Close()

	digest := xxhash.New()
	buf := make([]byte, h.chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, photo.NewError(photo.KindIoError, path, err)
		}
	}
	return photo.Fingerprint(digest.Sum64()), nil
}
