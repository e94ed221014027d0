package previews

import (
	"context"
	"fmt"

	"github.com/contre95/rawsolid/src/features/jobs"
)

// WarmStats summarizes a warm job.
type WarmStats struct {
	Extracted int `json:"extracted"`
	Cached    int `json:"cached"`
	Failed    int `json:"failed"`
}

// WarmTask implements jobs.Task for background cache fills.
type WarmTask struct {
	service *Service
}

// NewWarmTask creates a new WarmTask.
func NewWarmTask(service *Service) *WarmTask {
	return &WarmTask{service: service}
}

// MetadataKeys returns the required metadata keys for a warm job.
func (t *WarmTask) MetadataKeys() []string {
	return []string{"path"}
}

// Execute discovers the job's path and extracts every missing preview.
func (t *WarmTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	root, ok := job.Metadata["path"].(string)
	if !ok || root == "" {
		return nil, fmt.Errorf("invalid path in job metadata")
	}

	var stats WarmStats
	results, err := t.service.warm(ctx, root, func(done, total int, res WarmResult) {
		switch {
		case res.Err != nil:
			stats.Failed++
			job.Logger.Error("Thumbnail failed", "file", res.Path, "error", res.Err)
		case res.Entry.Cached:
			stats.Cached++
			job.Logger.Info("Thumbnail already cached", "file", res.Path, "color", "blue")
		default:
			stats.Extracted++
			job.Logger.Info("Thumbnail extracted", "file", res.Path, "thumbnail", res.Entry.CachePath, "color", "green")
		}
		progressUpdater(done*100/total, fmt.Sprintf("%d/%d thumbnails", done, total))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover %s: %w", root, err)
	}
	if ctx.Err() != nil {
		return map[string]any{"stats": stats}, ctx.Err()
	}

	msg := fmt.Sprintf("Thumbnail warm finished. %d files (%d extracted, %d cached, %d failed).",
		len(results), stats.Extracted, stats.Cached, stats.Failed)
	job.Logger.Info(msg)
	out := map[string]any{"stats": stats, "msg": msg}
	if stats.Failed > 0 {
		return out, &jobs.PartialError{Failed: stats.Failed, Total: len(results)}
	}
	return out, nil
}

// Cleanup does nothing for warm jobs.
func (t *WarmTask) Cleanup(job *jobs.Job) error {
	return nil
}
