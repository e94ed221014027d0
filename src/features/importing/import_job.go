package importing

import (
	"context"
	"fmt"

	"github.com/contre95/rawsolid/src/features/jobs"
	"github.com/contre95/rawsolid/src/photo"
)

// ImportStats contains statistics about the import process
type ImportStats struct {
	Imported   int `json:"imported"`
	Failed     int `json:"failed"`
	Duplicated int `json:"duplicated"`
}

// FileOutcome is the job-metadata form of a photo.FileResult.
type FileOutcome struct {
	Source      string          `json:"source"`
	Date        string          `json:"date,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Kind        photo.ErrorKind `json:"kind,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ImportTask implements jobs.Task for background imports.
type ImportTask struct {
	service *Service
}

// NewImportTask creates a new ImportTask.
func NewImportTask(service *Service) *ImportTask {
	return &ImportTask{service: service}
}

// MetadataKeys returns the required metadata keys for an import job.
func (t *ImportTask) MetadataKeys() []string {
	return []string{"job"}
}

// Execute organizes the job's sources and logs each outcome.
func (t *ImportTask) Execute(ctx context.Context, job *jobs.Job, progressUpdater func(int, string)) (map[string]any, error) {
	importJob, ok := job.Metadata["job"].(photo.ImportJob)
	if !ok {
		return nil, fmt.Errorf("invalid import job in job metadata")
	}

	var stats ImportStats
	report := t.service.Organizer().RunWithProgress(ctx, importJob, func(done, total int, res photo.FileResult) {
		switch {
		case res.OK():
			stats.Imported++
			job.Logger.Info("Imported", "source", res.Source, "date", res.Date, "destination", res.Destination, "color", "green")
		case res.Kind() == photo.KindDeleteFailed:
			// The file was placed but the source is still there.
			stats.Imported++
			stats.Duplicated++
			job.Logger.Warn("Imported but source not deleted", "source", res.Source, "destination", res.Destination, "error", res.Err)
		default:
			stats.Failed++
			job.Logger.Error("Import failed", "source", res.Source, "kind", res.Kind(), "error", res.Err)
		}
		progressUpdater(done*100/total, fmt.Sprintf("%d/%d files", done, total))
	})

	outcomes := make([]FileOutcome, len(report.Results))
	for i, res := range report.Results {
		outcomes[i] = FileOutcome{Source: res.Source, Date: res.Date, Destination: res.Destination}
		if !res.OK() {
			outcomes[i].Kind = res.Kind()
			outcomes[i].Error = res.Err.Error()
		}
	}

	msg := fmt.Sprintf("Import finished. %d files (%d imported, %d failed, %d duplicated).",
		len(report.Results), stats.Imported, stats.Failed, stats.Duplicated)
	job.Logger.Info(msg)
	out := map[string]any{"stats": stats, "results": outcomes, "msg": msg}

	if ctx.Err() != nil {
		return out, ctx.Err()
	}
	if failed := len(report.Failed()); failed > 0 {
		if failed == len(report.Results) {
			return out, fmt.Errorf("no files were imported: %d of %d failed", failed, failed)
		}
		return out, &jobs.PartialError{Failed: failed, Total: len(report.Results)}
	}
	return out, nil
}

// Cleanup does nothing for imports.
func (t *ImportTask) Cleanup(job *jobs.Job) error {
	return nil
}
