package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	m "mutlab.dev/pkg/mutlab/internal/model"
)

// BuildRunner executes one build-tool invocation for one phase and maps its
// exit into a structured phase status. Expected build and test failures come
// back as a status, not an error; the error return is reserved for
// environment problems (tool missing, interruption).
type BuildRunner interface {
	// Run executes the tool with args in dir, streaming combined output into
	// log. A timeout of zero means no deadline.
	Run(ctx context.Context, args []string, dir string, timeout time.Duration, log io.Writer) (m.PhaseStatus, error)
}

// LocalBuildRunner runs the build tool as a subprocess via os/exec.
type LocalBuildRunner struct {
	tool string
}

// NewLocalBuildRunner constructs a runner for the given build tool
// executable, normally "go".
func NewLocalBuildRunner(tool string) *LocalBuildRunner {
	if tool == "" {
		tool = "go"
	}

	return &LocalBuildRunner{tool: tool}
}

// Run executes one phase, blocking until the subprocess exits or the
// deadline passes. On timeout the subprocess is killed and StatusTimeout is
// returned; it is never retried.
func (r *LocalBuildRunner) Run(
	ctx context.Context,
	args []string,
	dir string,
	timeout time.Duration,
	log io.Writer,
) (m.PhaseStatus, error) {
	runCtx := ctx

	if timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.tool, args...)
	cmd.Dir = dir
	cmd.Stdout = log
	cmd.Stderr = log

	slog.Debug("running build tool", "tool", r.tool, "args", args, "dir", dir, "timeout", timeout)

	err := cmd.Run()
	if err == nil {
		return m.StatusSuccess, nil
	}

	// The deadline applies only to this invocation; the parent context
	// expiring means the whole run was interrupted.
	if runCtx.Err() != nil && ctx.Err() == nil {
		slog.Info("build tool timed out", "tool", r.tool, "args", args, "timeout", timeout)
		return m.StatusTimeout, nil
	}

	if ctx.Err() != nil {
		return m.StatusFailure, fmt.Errorf("%s %v interrupted: %w", r.tool, args, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		slog.Debug("build tool failed", "tool", r.tool, "args", args, "exit_code", exitErr.ExitCode())
		return m.StatusFailure, nil
	}

	return m.StatusFailure, fmt.Errorf("run %s %v in %s: %w", r.tool, args, dir, err)
}
