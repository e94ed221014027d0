package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/contre95/rawsolid/src/photo"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 5 * time.Second

// Watcher monitors a source tree for new raw files and emits one event per
// quiet period.
type Watcher struct {
	watcher       *fsnotify.Watcher
	filter        photo.ExtensionFilter
	debounce      time.Duration
	watchPath     string
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	pending       []string
	running       bool
	stopChan      chan struct{}
	eventChan     chan<- FileEvent
}

// NewWatcher creates a new file system watcher
func NewWatcher(eventChan chan<- FileEvent, filter photo.ExtensionFilter, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:   watcher,
		filter:    filter,
		debounce:  debounce,
		eventChan: eventChan,
		stopChan:  make(chan struct{}),
	}, nil
}

// Start begins watching watchPath and every non-hidden directory below it.
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting file watcher", "path", watchPath)

	if err := w.addTree(watchPath); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop(ctx)

	slog.Info("File watcher started successfully")
	return nil
}

// Stop stops the file watcher
func (w *Watcher) Stop() {
	if !w.running {
		return
	}

	slog.Info("Stopping file watcher")
	w.running = false
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

// addTree registers root and its non-hidden subdirectories.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	// New directories (a card being copied in) are watched too.
	if err := w.addTree(event.Name); err == nil {
		slog.Debug("Watching new directory", "path", event.Name)
	}

	if !w.filter.Allowed(event.Name) {
		return
	}

	slog.Info("Detected new raw file", "file", event.Name)

	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	w.pending = append(w.pending, event.Name)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.emitDebounceEvent)
}

// emitDebounceEvent emits a file event after debounce period
func (w *Watcher) emitDebounceEvent() {
	w.debounceMutex.Lock()
	files := w.pending
	w.pending = nil
	w.debounceMutex.Unlock()

	event := FileEvent{
		Path:      w.watchPath,
		Files:     files,
		EventType: FileCreated,
		Timestamp: time.Now(),
	}

	select {
	case w.eventChan <- event:
		slog.Info("Emitted file event after debounce", "path", event.Path, "files", len(files))
	default:
		slog.Warn("Event channel full, dropping file event", "path", event.Path)
	}
}
