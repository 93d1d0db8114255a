package graph

import (
	"context"
	"sync"

	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
)

// recordingRunner records every compile invocation it runs, whatever the outcome.
type recordingRunner struct {
	next ports.ProcessRunner

	mu          sync.Mutex
	invocations []domain.Invocation
}

func (r *recordingRunner) Run(ctx context.Context, inv domain.Invocation) (domain.ProcessResult, error) {
	if inv.Kind == domain.InvocationCompile {
		r.mu.Lock()
		r.invocations = append(r.invocations, inv.Clone())
		r.mu.Unlock()
	}
	return r.next.Run(ctx, inv)
}

func (r *recordingRunner) recorded() []domain.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Invocation, len(r.invocations))
	copy(out, r.invocations)
	return out
}

// BuildWithCapture runs BuildAll while recording the compiler invocations, then
// hands them to sink. The database is written even when the build failed so
// that editors still see the sources that did compile. A sink failure is
// logged and never changes the build outcome; the result names the database
// only when it was written.
func (e *Engine) BuildWithCapture(ctx context.Context, sink ports.CaptureSink) (domain.BuildResult, error) {
	recorder := &recordingRunner{next: e.runner}

	captured := *e
	captured.runner = recorder

	result, buildErr := captured.BuildAll(ctx)
	if ctx.Err() != nil {
		return result, buildErr
	}

	if err := sink.Write(ctx, e.cfg.CompileDatabase, e.root, recorder.recorded()); err != nil {
		e.logger.Warn("failed to write compilation database: " + err.Error())
		return result, buildErr
	}
	result.CompileDatabase = e.cfg.CompileDatabase
	return result, buildErr
}
