package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans. One span covers one compile or link step.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
	// EmitPlan signals how many steps the build is about to consider.
	EmitPlan(ctx context.Context, names []string)
}

// Span represents a unit of work.
type Span interface {
	// Write receives the captured tool output of the step.
	io.Writer
	// MarkCached flags the step as skipped because its artifact is up to date.
	MarkCached()
	// RecordError records an error for the span.
	RecordError(err error)
	// End completes the span.
	End()
}
