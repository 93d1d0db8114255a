package progrock

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"github.com/vito/progrock"
	"go.trai.ch/gryla/internal/core/domain"
)

var _ progrock.Writer = (*StatusWriter)(nil)

const durationPrecision = time.Millisecond

// StatusWriter is a progrock.Writer that prints one line per finished vertex.
type StatusWriter struct {
	out *termenv.Output

	mu      sync.Mutex
	printed map[string]bool
}

// NewStatusWriter creates a StatusWriter on w, or stderr when w is nil.
// NO_COLOR disables colour.
func NewStatusWriter(w io.Writer) *StatusWriter {
	if w == nil {
		w = os.Stderr
	}
	profile := termenv.ANSI
	if os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}
	return &StatusWriter{
		out:     termenv.NewOutput(w, termenv.WithProfile(profile)),
		printed: make(map[string]bool),
	}
}

// WriteStatus prints every vertex that reached a terminal state for the first time.
func (s *StatusWriter) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range update.Vertexes {
		status := vertexStatus(v)
		if !status.IsTerminal() || s.printed[v.Id] {
			continue
		}
		s.printed[v.Id] = true
		if _, err := s.out.WriteString(s.formatLine(v, status) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (s *StatusWriter) Close() error {
	return nil
}

func vertexStatus(v *progrock.Vertex) domain.VertexStatus {
	switch {
	case v.Cached:
		return domain.VertexStatusCached
	case v.Completed == nil:
		return domain.VertexStatusRunning
	case v.Error != nil:
		return domain.VertexStatusFailed
	default:
		return domain.VertexStatusCompleted
	}
}

func (s *StatusWriter) formatLine(v *progrock.Vertex, status domain.VertexStatus) string {
	switch status {
	case domain.VertexStatusFailed:
		symbol := s.out.String("✗").Foreground(termenv.ANSIRed).String()
		return fmt.Sprintf("%s %s: %s", symbol, v.Name, *v.Error)
	case domain.VertexStatusCached:
		return s.out.String("• " + v.Name + " (" + string(status) + ")").Faint().String()
	default:
		symbol := s.out.String("✓").Foreground(termenv.ANSIGreen).String()
		line := symbol + " " + v.Name
		if v.Started != nil && v.Completed != nil {
			d := v.Completed.AsTime().Sub(v.Started.AsTime())
			line += s.out.String(fmt.Sprintf(" (%s)", d.Round(durationPrecision))).Faint().String()
		}
		return line
	}
}
