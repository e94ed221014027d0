package exiftool

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/contre95/rawsolid/src/infra/command"
)

func TestReadTagArgs(t *testing.T) {
	got := readTagArgs("/card/IMG_0001.CR2", "DateTimeOriginal")
	want := []string{"-DateTimeOriginal", "-s3", "/card/IMG_0001.CR2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestExtractArgs(t *testing.T) {
	tests := []struct {
		name     string
		outDir   string
		template string
	}{
		{"plain dir", "/cache/.extract-1", "/cache/.extract-1/%f_0123456789abcdef.jpg"},
		{"percent in dir", "/home/100%/cache/.extract-1", "/home/100%%/cache/.extract-1/%f_0123456789abcdef.jpg"},
		{"format-like dir", "/photos/%d/.extract-2", "/photos/%%d/.extract-2/%f_0123456789abcdef.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractArgs("PreviewImage", "/card/IMG_0001.CR2", tt.outDir, "0123456789abcdef")
			want := []string{"-PreviewImage", "-b", "-w", filepath.FromSlash(tt.template), "/card/IMG_0001.CR2"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestNew_DefaultPreviewTag(t *testing.T) {
	tool := New(command.NewRunner("exiftool", "exiftool", time.Second, nil), "")
	if tool.previewTag != DefaultPreviewTag {
		t.Errorf("expected %s, got %s", DefaultPreviewTag, tool.previewTag)
	}
}

// A shell script standing in for exiftool: it echoes a date for -s3 calls.
func TestReadTag_TrimsOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	script := filepath.Join(t.TempDir(), "fake-exiftool")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho '2023:07:14 10:00:00'\n"), 0755); err != nil {
		t.Fatal(err)
	}
	tool := New(command.NewRunner("exiftool", script, 5*time.Second, nil), "")
	out, err := tool.ReadTag(context.Background(), "/card/a.cr2", "DateTimeOriginal")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "2023:07:14 10:00:00" {
		t.Errorf("unexpected output %q", out)
	}
}
