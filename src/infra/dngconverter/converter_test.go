package dngconverter

import (
	"context"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/contre95/rawsolid/src/infra/command"
)

func TestArgs_FollowSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     []string
	}{
		{"defaults", Settings{}, []string{"-mp", "-p1", "-u", "-d", "/dest/2023-07-14", "/card/a.cr2"}},
		{"full compressed", Settings{Preview: PreviewFull, Compressed: true}, []string{"-mp", "-p2", "-c", "-d", "/dest/2023-07-14", "/card/a.cr2"}},
		{"everything", Settings{Preview: PreviewNone, Compressed: true, Linear: true, EmbedOriginal: true}, []string{"-mp", "-p0", "-c", "-l", "-e", "-d", "/dest/2023-07-14", "/card/a.cr2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(command.NewRunner("dng_converter", "dng", time.Second, nil), tt.settings)
			got := c.args("/card/a.cr2", "/dest/2023-07-14")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDefaultBinary(t *testing.T) {
	bin := DefaultBinary()
	if bin == "" {
		t.Fatal("expected a binary name")
	}
	if runtime.GOOS == "darwin" && !filepath.IsAbs(bin) {
		t.Errorf("expected absolute install path, got %s", bin)
	}
}

func TestAvailable_MissingBinary(t *testing.T) {
	c := New(command.NewRunner("dng_converter", filepath.Join(t.TempDir(), "missing"), time.Second, nil), Settings{})
	if c.Available(context.Background()) {
		t.Error("expected converter to be unavailable")
	}
}
