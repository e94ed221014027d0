// Package dngconverter adapts Adobe DNG Converter to photo.ConversionTool.
package dngconverter

import (
	"context"
	"os"
	"runtime"

	"github.com/contre95/rawsolid/src/infra/command"
	"github.com/contre95/rawsolid/src/photo"
)

// Preview sizes understood by the converter.
const (
	PreviewNone   = "none"
	PreviewMedium = "medium"
	PreviewFull   = "full"
)

// Settings selects the converter flags.
type Settings struct {
	Preview       string
	Compressed    bool
	Linear        bool
	EmbedOriginal bool
}

// Converter runs Adobe DNG Converter through a command.Runner.
type Converter struct {
	runner   *command.Runner
	settings Settings
}

var _ photo.ConversionTool = (*Converter)(nil)

// New creates a converter adapter.
func New(runner *command.Runner, settings Settings) *Converter {
	return &Converter{runner: runner, settings: settings}
}

// DefaultBinary returns the install location of the converter on this platform.
func DefaultBinary() string {
	switch runtime.GOOS {
	case "darwin":
		return "/Applications/Adobe DNG Converter.app/Contents/MacOS/Adobe DNG Converter"
	case "windows":
		return `C:\Program Files\Adobe\Adobe DNG Converter\Adobe DNG Converter.exe`
	default:
		return "Adobe DNG Converter"
	}
}

// Convert writes the DNG form of src into destDir.
func (c *Converter) Convert(ctx context.Context, src, destDir string) error {
	_, err := c.runner.Run(ctx, src, c.args(src, destDir)...)
	return err
}

// Available reports whether the converter binary exists or is on PATH.
func (c *Converter) Available(ctx context.Context) bool {
	if info, err := os.Stat(c.runner.Binary()); err == nil && !info.IsDir() {
		return true
	}
	return c.runner.Available()
}

func (c *Converter) args(src, destDir string) []string {
	args := []string{"-mp"}
	switch c.settings.Preview {
	case PreviewNone:
		args = append(args, "-p0")
	case PreviewFull:
		args = append(args, "-p2")
	default:
		args = append(args, "-p1")
	}
	if c.settings.Compressed {
		args = append(args, "-c")
	} else {
		args = append(args, "-u")
	}
	if c.settings.Linear {
		args = append(args, "-l")
	}
	if c.settings.EmbedOriginal {
		args = append(args, "-e")
	}
	return append(args, "-d", destDir, src)
}
