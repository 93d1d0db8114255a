package progrock

import (
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/gryla/internal/core/ports"
)

var _ ports.Span = (*Vertex)(nil)

// Vertex implements ports.Span wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder

	mu   sync.Mutex
	err  error
	done bool
}

// Write forwards captured tool output to the vertex log.
func (v *Vertex) Write(p []byte) (int, error) {
	return v.vertex.Stdout().Write(p)
}

// MarkCached marks the vertex as up to date.
func (v *Vertex) MarkCached() {
	v.vertex.Cached()
}

// RecordError remembers the first error; it is reported when the span ends.
func (v *Vertex) RecordError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err == nil {
		v.err = err
	}
}

// End completes the vertex. Calls after the first are ignored.
func (v *Vertex) End() {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return
	}
	v.done = true
	err := v.err
	v.mu.Unlock()

	v.vertex.Done(err)
}
