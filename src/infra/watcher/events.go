package watcher

import (
	"time"
)

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated FileEventType = "created"
)

// FileEvent is emitted once the watched tree has been quiet for the debounce period.
// Files lists the raw files created since the previous event.
type FileEvent struct {
	Path      string
	Files     []string
	EventType FileEventType
	Timestamp time.Time
}
