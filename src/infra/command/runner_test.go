package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/contre95/rawsolid/src/photo"
)

type recorderMock struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorderMock) ToolInvocation(tool, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, tool+":"+result)
}

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestRun_CapturesStdout(t *testing.T) {
	rec := &recorderMock{}
	r := NewRunner("sh", requireShell(t), time.Second*5, rec)
	out, err := r.Run(context.Background(), "file", "-c", "printf 2023:07:14")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(out) != "2023:07:14" {
		t.Errorf("unexpected stdout %q", out)
	}
	if len(rec.calls) != 1 || rec.calls[0] != "sh:ok" {
		t.Errorf("unexpected recorder calls %v", rec.calls)
	}
}

func TestRun_NonZeroExitCarriesStderr(t *testing.T) {
	rec := &recorderMock{}
	r := NewRunner("sh", requireShell(t), 5*time.Second, rec)
	_, err := r.Run(context.Background(), "/card/a.cr2", "-c", "echo 'File format error' >&2; exit 2")
	if !errors.Is(err, photo.ErrToolInvocationFailed) {
		t.Fatalf("expected ToolInvocationFailed, got %v", err)
	}
	var pe *photo.Error
	if !errors.As(err, &pe) || !strings.Contains(pe.Output, "File format error") {
		t.Errorf("expected stderr in Output, got %+v", pe)
	}
	if pe.Path != "/card/a.cr2" {
		t.Errorf("expected subject in error, got %q", pe.Path)
	}
	if rec.calls[0] != "sh:failed" {
		t.Errorf("unexpected recorder calls %v", rec.calls)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	r := NewRunner("ghost", "/nonexistent/ghost-tool", time.Second, nil)
	if r.Available() {
		t.Error("expected missing binary to be unavailable")
	}
	_, err := r.Run(context.Background(), "a.cr2")
	if !errors.Is(err, photo.ErrToolInvocationFailed) {
		t.Fatalf("expected ToolInvocationFailed, got %v", err)
	}
}

func TestRun_Timeout(t *testing.T) {
	rec := &recorderMock{}
	r := NewRunner("sh", requireShell(t), 100*time.Millisecond, rec)
	start := time.Now()
	_, err := r.Run(context.Background(), "a.cr2", "-c", "sleep 5")
	if !errors.Is(err, photo.ErrToolTimeout) {
		t.Fatalf("expected ToolTimeout, got %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Error("timeout did not stop the process")
	}
	if rec.calls[0] != "sh:timeout" {
		t.Errorf("unexpected recorder calls %v", rec.calls)
	}
}

func TestRun_CallerCancellationIsNotATimeout(t *testing.T) {
	r := NewRunner("sh", requireShell(t), 10*time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, "a.cr2", "-c", "sleep 5")
	if errors.Is(err, photo.ErrToolTimeout) {
		t.Fatal("cancellation must not be reported as a timeout")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}
