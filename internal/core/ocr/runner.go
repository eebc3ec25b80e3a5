package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// stderrTail caps how much engine stderr is kept on errors and in logs.
const stderrTail = 8 << 10

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecError is a command that started but exited non-zero.
type ExecError struct {
	Name     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited %d", e.Name, e.ExitCode)
	}
	return fmt.Sprintf("%s exited %d: %s", e.Name, e.ExitCode, e.Stderr)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExecRunner runs engine binaries on the host. A missing binary surfaces as
// exec.ErrNotFound; a non-zero exit as *ExecError.
type ExecRunner struct {
	Logger *slog.Logger
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)
	tail := truncate(strings.TrimSpace(errb.String()), stderrTail)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		logger.Debug("ocr.exec.ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		err = &ExecError{Name: name, ExitCode: exitErr.ExitCode(), Stderr: tail, Err: err}
		logger.Error("ocr.exec.exit",
			"cmd", name,
			"exit_code", exitErr.ExitCode(),
			"duration_ms", dur.Milliseconds(),
			"stderr", tail,
		)
	default:
		if ctx.Err() != nil {
			err = fmt.Errorf("%s: %w", name, ctx.Err())
		}
		logger.Error("ocr.exec.failed", "cmd", name, "duration_ms", dur.Milliseconds(), "error", err)
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
