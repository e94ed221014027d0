// Package command runs external tools as opaque subprocesses.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/contre95/rawsolid/src/photo"
)

// Result labels passed to a Recorder.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultTimeout = "timeout"
)

// Recorder observes every tool invocation.
type Recorder interface {
	ToolInvocation(tool, result string)
}

// Runner executes one binary with a wall-clock timeout per call.
type Runner struct {
	tool     string
	binary   string
	timeout  time.Duration
	recorder Recorder
}

// NewRunner creates a runner. tool is the short name used in logs and metrics.
// A zero timeout disables the wall-clock limit.
func NewRunner(tool, binary string, timeout time.Duration, recorder Recorder) *Runner {
	return &Runner{tool: tool, binary: binary, timeout: timeout, recorder: recorder}
}

// Binary returns the executable this runner invokes.
func (r *Runner) Binary() string { return r.binary }

// Available reports whether the binary can be resolved.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// Run executes the binary with args and returns its stdout.
// subject is the file the call is about and is only used in errors.
// A non-zero exit or a start failure yields ToolInvocationFailed with stderr in
// Output. Exceeding the timeout yields ToolTimeout.
func (r *Runner) Run(ctx context.Context, subject string, args ...string) ([]byte, error) {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.binary, args...)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running external tool", "tool", r.tool, "binary", r.binary, "args", args)
	start := time.Now()
	err := cmd.Run()
	if err == nil {
		r.record(ResultOK)
		slog.Debug("External tool finished", "tool", r.tool, "file", subject, "duration", time.Since(start))
		return stdout.Bytes(), nil
	}

	// Our own deadline fired while the caller's context is still live.
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		r.record(ResultTimeout)
		e := photo.NewError(photo.KindToolTimeout, subject, fmt.Errorf("%s exceeded %s", r.tool, r.timeout))
		e.Output = stderr.String()
		slog.Warn("External tool timed out", "tool", r.tool, "file", subject, "timeout", r.timeout)
		return nil, e
	}

	r.record(ResultFailed)
	cause := err
	if ctx.Err() != nil {
		cause = ctx.Err()
	}
	e := photo.NewError(photo.KindToolInvocationFailed, subject, fmt.Errorf("%s: %w", r.tool, cause))
	e.Output = stderr.String()
	slog.Debug("External tool failed", "tool", r.tool, "file", subject, "error", err, "stderr", strings.TrimSpace(e.Output))
	return nil, e
}

func (r *Runner) record(result string) {
	if r.recorder != nil {
		r.recorder.ToolInvocation(r.tool, result)
	}
}
