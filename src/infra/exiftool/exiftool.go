// Package exiftool adapts the exiftool binary to photo.MetadataTool.
package exiftool

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/contre95/rawsolid/src/infra/command"
	"github.com/contre95/rawsolid/src/photo"
)

// DefaultPreviewTag is the embedded image extracted for thumbnails.
const DefaultPreviewTag = "ThumbnailImage"

// Tool runs exiftool through a command.Runner.
type Tool struct {
	runner     *command.Runner
	previewTag string
}

var _ photo.MetadataTool = (*Tool)(nil)

// New creates an exiftool adapter. An empty previewTag selects DefaultPreviewTag.
func New(runner *command.Runner, previewTag string) *Tool {
	if previewTag == "" {
		previewTag = DefaultPreviewTag
	}
	return &Tool{runner: runner, previewTag: previewTag}
}

// ReadTag runs `exiftool -<tag> -s3 <path>` and returns the trimmed output.
func (t *Tool) ReadTag(ctx context.Context, path, tag string) (string, error) {
	out, err := t.runner.Run(ctx, path, readTagArgs(path, tag)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ExtractPreview runs `exiftool -<PreviewTag> -b -w <outDir>/%f_<token>.jpg <path>`.
// exiftool substitutes %f with the file stem, so the result is {stem}_{token}.jpg.
func (t *Tool) ExtractPreview(ctx context.Context, path, outDir, stem, token string) (string, error) {
	if _, err := t.runner.Run(ctx, path, extractArgs(t.previewTag, path, outDir, token)...); err != nil {
		return "", err
	}
	return filepath.Join(outDir, stem+"_"+token+photo.ThumbnailExt), nil
}

// Available reports whether exiftool can be found.
func (t *Tool) Available(ctx context.Context) bool {
	return t.runner.Available()
}

func readTagArgs(path, tag string) []string {
	return []string{"-" + tag, "-s3", path}
}

// extractArgs builds the -w template. exiftool expands % sequences anywhere in
// it, so a literal % in outDir is doubled.
func extractArgs(previewTag, path, outDir, token string) []string {
	dir := strings.ReplaceAll(outDir, "%", "%%")
	return []string{"-" + previewTag, "-b", "-w", filepath.Join(dir, "%f_"+token+photo.ThumbnailExt), path}
}
