package previews

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/contre95/rawsolid/src/photo"
)

// Results reported to a Recorder.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

var errNoPreview = errors.New("no embedded preview")

// Hasher fingerprints a file by content.
type Hasher interface {
	HashFile(path string) (photo.Fingerprint, error)
}

// Recorder observes thumbnail requests.
type Recorder interface {
	ThumbnailRequest(result string)
}

// Cache is a content-addressed store of embedded previews. A preview is
// extracted at most once per distinct file content.
type Cache struct {
	dir      string
	hasher   Hasher
	tool     photo.MetadataTool
	recorder Recorder
	group    singleflight.Group

	mu          sync.Mutex
	index       map[photo.Fingerprint]string
	indexLoaded bool
}

// NewCache creates a cache rooted at dir. recorder may be nil.
func NewCache(dir string, hasher Hasher, tool photo.MetadataTool, recorder Recorder) *Cache {
	return &Cache{
		dir:      dir,
		hasher:   hasher,
		tool:     tool,
		recorder: recorder,
		index:    make(map[photo.Fingerprint]string),
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// GetOrCreate returns the cached preview of path, extracting it on a miss.
func (c *Cache) GetOrCreate(ctx context.Context, path string) (photo.ThumbnailEntry, error) {
	entry, err := c.getOrCreate(ctx, path)
	switch {
	case err != nil:
		c.record(ResultError)
	case entry.Cached:
		c.record(ResultHit)
	default:
		c.record(ResultMiss)
	}
	return entry, err
}

func (c *Cache) getOrCreate(ctx context.Context, path string) (photo.ThumbnailEntry, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return photo.ThumbnailEntry{}, photo.NewError(photo.KindCacheDirUnavailable, c.dir, err)
	}

	fp, err := c.hasher.HashFile(path)
	if err != nil {
		return photo.ThumbnailEntry{}, err
	}
	stem, err := photo.Stem(path)
	if err != nil {
		return photo.ThumbnailEntry{}, err
	}

	entry := photo.ThumbnailEntry{
		Fingerprint:  fp,
		Hash:         fp.String(),
		OriginalStem: stem,
		SourcePath:   path,
		CachePath:    photo.ThumbnailPath(c.dir, stem, fp),
	}

	if cached, ok := c.lookupFingerprint(fp, entry.CachePath); ok {
		entry.CachePath = cached
		entry.Cached = true
		slog.Debug("Thumbnail cache hit", "file", path, "thumbnail", cached)
		return entry, nil
	}

	// Keyed by content so copies of one file under different names share a
	// single extraction and end up on the same preview.
	extracted := false
	v, err, _ := c.group.Do(fp.String(), func() (any, error) {
		p, ran, err := c.extract(ctx, path, stem, fp, entry.CachePath)
		extracted = ran
		return p, err
	})
	if err != nil {
		return photo.ThumbnailEntry{}, err
	}
	entry.CachePath = v.(string)
	// Callers that joined an in-flight extraction count as hits.
	entry.Cached = !extracted
	return entry, nil
}

// lookupFingerprint finds an existing preview for fp: first at expected, then
// under any other stem recorded for the same content.
func (c *Cache) lookupFingerprint(fp photo.Fingerprint, expected string) (string, bool) {
	if fileExists(expected) {
		c.remember(fp, expected)
		return expected, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadIndexLocked()
	if p, ok := c.index[fp]; ok {
		if fileExists(p) {
			return p, true
		}
		delete(c.index, fp)
	}
	return "", false
}

// extract runs the metadata tool into a private temp dir and publishes the
// result with a rename so a canonical path never holds a partial file.
// The bool reports whether the tool actually ran.
func (c *Cache) extract(ctx context.Context, path, stem string, fp photo.Fingerprint, expected string) (string, bool, error) {
	// Another process may have published it meanwhile.
	if fileExists(expected) {
		c.remember(fp, expected)
		return expected, false, nil
	}

	tmpDir, err := os.MkdirTemp(c.dir, ".extract-*")
	if err != nil {
		return "", false, photo.NewError(photo.KindCacheDirUnavailable, c.dir, err)
	}
	defer os.RemoveAll(tmpDir)

	slog.Debug("Extracting embedded preview", "file", path, "dir", tmpDir)
	produced, err := c.tool.ExtractPreview(ctx, path, tmpDir, stem, fp.String())
	if err != nil {
		return "", false, extractionError(path, err)
	}
	if !fileExists(produced) {
		return "", false, photo.NewError(photo.KindExtractionFailed, path, errNoPreview)
	}
	if err := os.Rename(produced, expected); err != nil {
		return "", false, photo.NewError(photo.KindIoError, expected, fmt.Errorf("failed to publish thumbnail: %w", err))
	}

	c.remember(fp, expected)
	slog.Info("Thumbnail extracted", "file", path, "thumbnail", expected)
	return expected, true, nil
}

func extractionError(path string, err error) error {
	if errors.Is(err, photo.ErrToolTimeout) {
		return err
	}
	e := photo.NewError(photo.KindExtractionFailed, path, err)
	var toolErr *photo.Error
	if errors.As(err, &toolErr) {
		e.Output = toolErr.Output
	}
	return e
}

func (c *Cache) remember(fp photo.Fingerprint, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index[fp] = path
}

// loadIndexLocked reads the cache directory once and records every entry
// name that parses as {stem}_{fingerprint}.jpg.
func (c *Cache) loadIndexLocked() {
	if c.indexLoaded {
		return
	}
	c.indexLoaded = true
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		slog.Debug("Could not read thumbnail cache directory", "dir", c.dir, "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, fp, ok := photo.ParseThumbnailName(e.Name()); ok {
			if _, seen := c.index[fp]; !seen {
				c.index[fp] = filepath.Join(c.dir, e.Name())
			}
		}
	}
	slog.Debug("Thumbnail index loaded", "dir", c.dir, "entries", len(c.index))
}

// Lookup resolves a cache file name to its path. Names carrying path
// separators or not shaped like a cache entry are rejected.
func (c *Cache) Lookup(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", photo.NewError(photo.KindInvalidFileName, name, errors.New("not a cache entry name"))
	}
	if _, _, ok := photo.ParseThumbnailName(name); !ok {
		return "", photo.NewError(photo.KindInvalidFileName, name, errors.New("not a cache entry name"))
	}
	p := filepath.Join(c.dir, name)
	if !fileExists(p) {
		return "", photo.NewError(photo.KindPathNotFound, p, fs.ErrNotExist)
	}
	return p, nil
}

// WarmResult is the outcome of warming one file.
type WarmResult struct {
	Path  string
	Entry photo.ThumbnailEntry
	Err   error
}

// Warm fills the cache for records using at most workers concurrent
// extractions. Results are in the order of records. progress, when set, is
// called after each file.
func (c *Cache) Warm(ctx context.Context, records []photo.FileRecord, workers int, progress func(done, total int, res WarmResult)) []WarmResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]WarmResult, len(records))
	var (
		mu   sync.Mutex
		done int
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, rec := range records {
		g.Go(func() error {
			res := WarmResult{Path: rec.Path}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				res.Entry, res.Err = c.GetOrCreate(ctx, rec.Path)
			}
			results[i] = res

			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done, len(records), res)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *Cache) record(result string) {
	if c.recorder != nil {
		c.recorder.ThumbnailRequest(result)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
