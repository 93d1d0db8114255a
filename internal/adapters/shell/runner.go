// Package shell provides the process runner adapter for compiler and linker invocations.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProcessRunner = (*Runner)(nil)

// DefaultWaitDelay bounds how long Run waits for output pipes after the process is killed.
const DefaultWaitDelay = 2 * time.Second

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct {
	logger    ports.Logger
	waitDelay time.Duration
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger:    logger,
		waitDelay: DefaultWaitDelay,
	}
}

// Run executes the invocation, capturing stdout and stderr into one stream.
//
// The tool runs in its own process group; when ctx ends the whole group is
// killed. A deadline yields exit status 124 and ErrProcessTimedOut, a
// cancellation yields the context error.
func (r *Runner) Run(ctx context.Context, inv domain.Invocation) (domain.ProcessResult, error) {
	if inv.Tool == "" {
		return domain.ProcessResult{ExitCode: domain.ExitCodeNotStarted},
			zerr.Wrap(domain.ErrProcessNotStarted, "empty tool")
	}

	cmd := exec.CommandContext(ctx, inv.Tool, inv.Args...) //nolint:gosec // compiler path comes from trusted config
	cmd.Dir = inv.Dir

	var out lockedBuffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		if err := killProcessGroup(cmd); err != nil {
			r.logger.Warn("failed to kill process group of " + inv.Tool + ": " + err.Error())
			return err
		}
		return nil
	}
	cmd.WaitDelay = r.waitDelay

	err := cmd.Run()
	result := domain.ProcessResult{Output: out.Bytes()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			result.ExitCode = domain.ExitCodeTimedOut
			return result, zerr.With(zerr.Wrap(domain.ErrProcessTimedOut, strings.Join(inv.Argv(), " ")), "tool", inv.Tool)
		}
		result.ExitCode = exitCodeOf(err)
		return result, zerr.Wrap(ctxErr, "process cancelled")
	}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			// Killed by a signal outside our control.
			result.ExitCode = 1
		}
		return result, nil
	}

	result.ExitCode = domain.ExitCodeNotStarted
	return result, zerr.With(zerr.Wrap(domain.ErrProcessNotStarted, err.Error()), "tool", inv.Tool)
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// lockedBuffer serialises writes from the stdout and stderr copiers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
