package importing

import (
	"context"

	"github.com/contre95/rawsolid/src/infra/watcher"
)

// Watcher defines the interface for file system watchers
type Watcher interface {
	Start(ctx context.Context, watchPath string) error
	Stop()
}

// WatcherFactory builds a watcher that reports on events. A stopped watcher
// cannot be restarted, so each start asks for a new one.
type WatcherFactory func(events chan<- watcher.FileEvent) (Watcher, error)

// Warmer prepares previews for newly arrived files.
type Warmer interface {
	WarmDirectory(ctx context.Context, root string) (string, error)
}
