package previews

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contre95/rawsolid/src/features/config"
	"github.com/contre95/rawsolid/src/features/jobs"
	"github.com/contre95/rawsolid/src/photo"
)

// WarmJobType is the job type of a background cache fill.
const WarmJobType = "thumbnail_warm"

// Discoverer lists the raw files below a root.
type Discoverer interface {
	Discover(root string) ([]photo.FileRecord, error)
}

// Service is the domain service for the previews feature.
type Service struct {
	cache      *Cache
	discoverer Discoverer
	config     *config.Manager
	jobService jobs.JobService
}

// NewService creates a new previews service.
func NewService(cache *Cache, discoverer Discoverer, cfg *config.Manager, jobService jobs.JobService) *Service {
	return &Service{
		cache:      cache,
		discoverer: discoverer,
		config:     cfg,
		jobService: jobService,
	}
}

// Thumbnail returns the cached preview of a single file.
func (s *Service) Thumbnail(ctx context.Context, path string) (photo.ThumbnailEntry, error) {
	entry, err := s.cache.GetOrCreate(ctx, path)
	if err != nil {
		slog.Warn("Thumbnail request failed", "file", path, "kind", photo.KindOf(err), "error", err)
		return photo.ThumbnailEntry{}, err
	}
	return entry, nil
}

// ThumbnailFile resolves a cache entry name to a file on disk.
func (s *Service) ThumbnailFile(name string) (string, error) {
	return s.cache.Lookup(name)
}

// WarmDirectory starts a job that fills the cache for every raw file under root.
func (s *Service) WarmDirectory(ctx context.Context, root string) (string, error) {
	slog.Debug("WarmDirectory service called", "path", root)
	jobID, err := s.jobService.StartJob(WarmJobType, "Thumbnail Warm", map[string]any{
		"path": root,
	})
	if err != nil {
		slog.Error("Service.WarmDirectory: failed to start job", "error", err)
		return "", fmt.Errorf("failed to start thumbnail warm job: %w", err)
	}
	return jobID, nil
}

// warm discovers root and fills the cache with the configured worker count.
func (s *Service) warm(ctx context.Context, root string, progress func(done, total int, res WarmResult)) ([]WarmResult, error) {
	records, err := s.discoverer.Discover(root)
	if err != nil {
		return nil, err
	}
	workers := s.config.Get().Previews.Workers
	return s.cache.Warm(ctx, records, workers, progress), nil
}
