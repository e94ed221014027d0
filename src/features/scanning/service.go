package scanning

import (
	"log/slog"

	"github.com/docker/go-units"

	"github.com/contre95/rawsolid/src/photo"
)

// Discoverer lists the raw files below a root.
type Discoverer interface {
	Discover(root string) ([]photo.FileRecord, error)
}

// VolumeLister lists the mounted disks a user can pick as a source.
type VolumeLister interface {
	List() ([]photo.Volume, error)
}

// Summary totals a discovery result.
type Summary struct {
	Files      int    `json:"files"`
	TotalBytes uint64 `json:"totalBytes"`
	TotalSize  string `json:"totalSize"`
}

// Service is the domain service for the scanning feature.
type Service struct {
	discoverer Discoverer
	volumes    VolumeLister
}

// NewService creates a new scanning service.
func NewService(discoverer Discoverer, volumes VolumeLister) *Service {
	return &Service{discoverer: discoverer, volumes: volumes}
}

// Sources lists the removable volumes currently mounted.
func (s *Service) Sources() ([]photo.Volume, error) {
	vols, err := s.volumes.List()
	if err != nil {
		slog.Warn("Failed to list volumes", "error", err)
		return nil, err
	}
	slog.Debug("Listed source volumes", "count", len(vols))
	return vols, nil
}

// Scan discovers the raw files under root.
func (s *Service) Scan(root string) ([]photo.FileRecord, Summary, error) {
	records, err := s.discoverer.Discover(root)
	if err != nil {
		slog.Warn("Scan failed", "path", root, "kind", photo.KindOf(err), "error", err)
		return nil, Summary{}, err
	}
	sum := Summary{Files: len(records)}
	for _, r := range records {
		if r.Size != nil {
			sum.TotalBytes += *r.Size
		}
	}
	sum.TotalSize = units.HumanSize(float64(sum.TotalBytes))
	slog.Info("Scanned source", "path", root, "files", sum.Files, "size", sum.TotalSize)
	return records, sum, nil
}
