package importing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/contre95/rawsolid/src/features/config"
	"github.com/contre95/rawsolid/src/features/jobs"
	"github.com/contre95/rawsolid/src/infra/watcher"
	"github.com/contre95/rawsolid/src/photo"
)

// ImportJobType is the job type of a background import.
const ImportJobType = "photo_import"

// Discoverer lists the raw files below a root.
type Discoverer interface {
	Discover(root string) ([]photo.FileRecord, error)
}

// Service is the domain service for the importing feature.
type Service struct {
	resolver   *DateResolver
	files      FileOrganizer
	converter  photo.ConversionTool
	discoverer Discoverer
	recorder   Recorder
	config     *config.Manager
	jobService jobs.JobService

	newWatcher    WatcherFactory
	warmer        Warmer
	watcherMu     sync.Mutex
	watcher       Watcher
	watcherCancel context.CancelFunc
}

// NewService creates a new importing service. recorder, newWatcher and warmer may be nil.
func NewService(resolver *DateResolver, files FileOrganizer, converter photo.ConversionTool, discoverer Discoverer, recorder Recorder, cfg *config.Manager, jobService jobs.JobService, newWatcher WatcherFactory, warmer Warmer) *Service {
	return &Service{
		resolver:   resolver,
		files:      files,
		converter:  converter,
		discoverer: discoverer,
		recorder:   recorder,
		config:     cfg,
		jobService: jobService,
		newWatcher: newWatcher,
		warmer:     warmer,
	}
}

// Organizer builds an Organizer from the current configuration.
func (s *Service) Organizer() *Organizer {
	cfg := s.config.Get().Import
	opts := []OrganizerOption{
		WithLayout(photo.SubfolderLayout(cfg.Subfolders)),
		WithWorkers(cfg.Workers),
	}
	if s.recorder != nil {
		opts = append(opts, WithRecorder(s.recorder))
	}
	return NewOrganizer(s.resolver, s.files, s.converter, opts...)
}

// ExpandSources appends every raw file found under dirs to sources.
func (s *Service) ExpandSources(sources []string, dirs ...string) ([]string, error) {
	out := append([]string(nil), sources...)
	for _, dir := range dirs {
		records, err := s.discoverer.Discover(dir)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			out = append(out, r.Path)
		}
	}
	return out, nil
}

// ImportSync runs job in the calling goroutine and returns the per-file report.
func (s *Service) ImportSync(ctx context.Context, job photo.ImportJob) (photo.ImportReport, error) {
	if err := validateJob(job); err != nil {
		return photo.ImportReport{}, err
	}
	report := s.Organizer().Run(ctx, job)
	slog.Info("Import finished", "files", len(report.Results), "failed", len(report.Failed()))
	return report, nil
}

// Import starts a background job running job.
func (s *Service) Import(ctx context.Context, job photo.ImportJob) (string, error) {
	if err := validateJob(job); err != nil {
		return "", err
	}
	slog.Debug("Import service called", "files", len(job.Sources), "destination", job.DestinationRoot)
	jobID, err := s.jobService.StartJob(ImportJobType, "Photo Import", map[string]any{
		"job": job,
	})
	if err != nil {
		slog.Error("Service.Import: failed to start job", "error", err)
		return "", fmt.Errorf("failed to start import job: %w", err)
	}
	return jobID, nil
}

// ConverterAvailable reports whether format conversion can be offered.
func (s *Service) ConverterAvailable(ctx context.Context) bool {
	return s.converter != nil && s.converter.Available(ctx)
}

var errInvalidJob = errors.New("invalid import job")

func validateJob(job photo.ImportJob) error {
	if job.DestinationRoot == "" {
		return fmt.Errorf("%w: destination is required", errInvalidJob)
	}
	if len(job.Sources) == 0 {
		return fmt.Errorf("%w: no source files", errInvalidJob)
	}
	return nil
}

// StartWatcher watches the configured source path and warms previews for new files.
func (s *Service) StartWatcher() error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()

	if s.watcher != nil {
		return errors.New("watcher already running")
	}
	if s.newWatcher == nil {
		return errors.New("watcher not available")
	}
	root := s.config.Get().Source.Path
	if root == "" {
		return errors.New("source.path is not configured")
	}

	events := make(chan watcher.FileEvent, 4)
	w, err := s.newWatcher(events)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx, root); err != nil {
		cancel()
		w.Stop()
		return fmt.Errorf("failed to start watcher on %s: %w", root, err)
	}
	s.watcher = w
	s.watcherCancel = cancel
	go s.handleEvents(ctx, events)
	return nil
}

// StopWatcher stops the watcher if it is running.
func (s *Service) StopWatcher() error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	if s.watcher == nil {
		return errors.New("watcher not running")
	}
	s.watcherCancel()
	s.watcher.Stop()
	s.watcher = nil
	s.watcherCancel = nil
	return nil
}

// GetWatcherStatus reports whether the watcher is running.
func (s *Service) GetWatcherStatus() bool {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	return s.watcher != nil
}

func (s *Service) handleEvents(ctx context.Context, events <-chan watcher.FileEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			slog.Info("New raw files detected", "path", ev.Path, "files", len(ev.Files))
			if s.warmer == nil {
				continue
			}
			if jobID, err := s.warmer.WarmDirectory(ctx, ev.Path); err != nil {
				slog.Error("Failed to start thumbnail warm after watcher event", "error", err)
			} else {
				slog.Info("Thumbnail warm started by watcher", "jobID", jobID)
			}
		}
	}
}
