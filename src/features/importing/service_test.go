package importing

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/contre95/rawsolid/src/features/config"
	"github.com/contre95/rawsolid/src/features/jobs"
	"github.com/contre95/rawsolid/src/infra/files"
	"github.com/contre95/rawsolid/src/infra/watcher"
	"github.com/contre95/rawsolid/src/photo"
)

func newTestService(t *testing.T, tool photo.MetadataTool, newWatcher WatcherFactory, warmer Warmer) (*Service, *jobs.Service) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Import.Subfolders = string(photo.LayoutISO)
	cfg.Import.Workers = 2
	cfg.Source.Path = t.TempDir()
	jobService := jobs.NewService(&cfg.Jobs)
	svc := NewService(NewDateResolver(tool), files.NewFileOrganizer(), nil,
		files.NewDiscoverer(photo.NewExtensionFilter(photo.DefaultExtensions)), nil,
		config.NewManager(cfg), jobService, newWatcher, warmer)
	jobService.RegisterHandler(ImportJobType, jobs.NewBaseTaskHandler(NewImportTask(svc)))
	return svc, jobService
}

func waitForJob(t *testing.T, js *jobs.Service, id string) *jobs.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job, ok := js.GetJob(id); ok && job.Status.Finished() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return nil
}

func TestImportSync_Validation(t *testing.T) {
	svc, _ := newTestService(t, &mockTool{}, nil, nil)

	_, err := svc.ImportSync(context.Background(), photo.ImportJob{Sources: []string{"a.cr2"}})
	if !errors.Is(err, errInvalidJob) {
		t.Errorf("expected errInvalidJob without destination, got %v", err)
	}
	_, err = svc.ImportSync(context.Background(), photo.ImportJob{DestinationRoot: t.TempDir()})
	if !errors.Is(err, errInvalidJob) {
		t.Errorf("expected errInvalidJob without sources, got %v", err)
	}
}

func TestExpandSources(t *testing.T) {
	svc, _ := newTestService(t, &mockTool{}, nil, nil)
	dir := t.TempDir()
	writeSource(t, dir, "a.cr2")
	writeSource(t, dir, "notes.txt")

	got, err := svc.ExpandSources([]string{"/explicit.nef"}, dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0] != "/explicit.nef" || filepath.Base(got[1]) != "a.cr2" {
		t.Errorf("unexpected sources %v", got)
	}

	if _, err := svc.ExpandSources(nil, filepath.Join(dir, "missing")); !errors.Is(err, photo.ErrPathNotFound) {
		t.Errorf("expected PathNotFound, got %v", err)
	}
}

func TestImportJob_CompletesWithErrors(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	good := writeSource(t, src, "good.cr2")
	bad := writeSource(t, src, "bad.cr2")
	tool := &mockTool{dates: map[string]string{"good.cr2": "2023:07:14 10:00:00"}}
	svc, js := newTestService(t, tool, nil, nil)

	id, err := svc.Import(context.Background(), photo.ImportJob{Sources: []string{good, bad}, DestinationRoot: dest})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	job := waitForJob(t, js, id)

	if job.Status != jobs.JobStatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", job.Status, job.Error)
	}
	if job.Error == "" {
		t.Error("expected partial failure recorded")
	}
	stats, ok := job.Metadata["stats"].(ImportStats)
	if !ok || stats.Imported != 1 || stats.Failed != 1 {
		t.Errorf("unexpected stats %+v", job.Metadata["stats"])
	}
	outcomes, ok := job.Metadata["results"].([]FileOutcome)
	if !ok || len(outcomes) != 2 || outcomes[1].Kind != photo.KindDateNotFound {
		t.Errorf("unexpected outcomes %+v", job.Metadata["results"])
	}
}

func TestImportJob_FailsWhenNothingImported(t *testing.T) {
	src := t.TempDir()
	bad := writeSource(t, src, "bad.cr2")
	svc, js := newTestService(t, &mockTool{}, nil, nil)

	id, err := svc.Import(context.Background(), photo.ImportJob{Sources: []string{bad}, DestinationRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if job := waitForJob(t, js, id); job.Status != jobs.JobStatusFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
}

type mockWatcher struct {
	events  chan<- watcher.FileEvent
	started chan string
	stopped bool
}

func (m *mockWatcher) Start(ctx context.Context, path string) error {
	m.started <- path
	return nil
}

func (m *mockWatcher) Stop() { m.stopped = true }

type mockWarmer struct {
	mu    sync.Mutex
	roots []string
	done  chan struct{}
}

func (m *mockWarmer) WarmDirectory(ctx context.Context, root string) (string, error) {
	m.mu.Lock()
	m.roots = append(m.roots, root)
	m.mu.Unlock()
	m.done <- struct{}{}
	return "job-1", nil
}

func TestWatcher_StartStopAndWarm(t *testing.T) {
	var w *mockWatcher
	factory := func(events chan<- watcher.FileEvent) (Watcher, error) {
		w = &mockWatcher{events: events, started: make(chan string, 1)}
		return w, nil
	}
	warmer := &mockWarmer{done: make(chan struct{}, 1)}
	svc, _ := newTestService(t, &mockTool{}, factory, warmer)

	if svc.GetWatcherStatus() {
		t.Fatal("expected watcher stopped")
	}
	if err := svc.StartWatcher(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.StartWatcher(); err == nil {
		t.Error("expected error when already running")
	}
	if !svc.GetWatcherStatus() {
		t.Error("expected watcher running")
	}
	root := <-w.started

	w.events <- watcher.FileEvent{Path: root, Files: []string{filepath.Join(root, "a.cr2")}, EventType: watcher.FileCreated}
	select {
	case <-warmer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected warm to start")
	}
	if warmer.roots[0] != root {
		t.Errorf("expected warm of %s, got %v", root, warmer.roots)
	}

	if err := svc.StopWatcher(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !w.stopped || svc.GetWatcherStatus() {
		t.Error("expected watcher stopped")
	}
	if err := svc.StopWatcher(); err == nil {
		t.Error("expected error when not running")
	}
}
