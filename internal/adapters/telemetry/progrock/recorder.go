// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/gryla/internal/core/ports"
)

var _ ports.Tracer = (*Recorder)(nil)

// Recorder implements ports.Tracer by recording one progrock vertex per span.
type Recorder struct {
	w      progrock.Writer
	rec    *progrock.Recorder
	logger ports.Logger
}

// New creates a new Recorder that prints finished steps through a StatusWriter on stderr.
func New(logger ports.Logger) *Recorder {
	return NewRecorder(NewStatusWriter(nil), logger)
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer, logger ports.Logger) *Recorder {
	return &Recorder{
		w:      w,
		rec:    progrock.NewRecorder(w),
		logger: logger,
	}
}

// Start begins a vertex named after the step. Names are unique per build, so the
// digest of the name identifies the vertex.
func (r *Recorder) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	v := r.rec.Vertex(digest.FromString(name), name)
	return ctx, &Vertex{vertex: v}
}

// EmitPlan logs how many steps the build considers.
func (r *Recorder) EmitPlan(_ context.Context, names []string) {
	if r.logger == nil || len(names) == 0 {
		return
	}
	r.logger.Info(fmt.Sprintf("checking %d step(s)", len(names)))
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}
