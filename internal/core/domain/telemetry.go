package domain

// VertexStatus is the lifecycle state of one compile or link step.
type VertexStatus string

const (
	// VertexStatusRunning indicates the tool is executing.
	VertexStatusRunning VertexStatus = "running"
	// VertexStatusCompleted indicates the tool exited successfully.
	VertexStatusCompleted VertexStatus = "completed"
	// VertexStatusFailed indicates the tool failed, timed out or was interrupted.
	VertexStatusFailed VertexStatus = "failed"
	// VertexStatusCached indicates the artifact was already up to date.
	VertexStatusCached VertexStatus = "up-to-date"
)

// IsTerminal reports whether the step has finished.
func (s VertexStatus) IsTerminal() bool {
	switch s {
	case VertexStatusCompleted, VertexStatusFailed, VertexStatusCached:
		return true
	default:
		return false
	}
}

// VertexName returns the telemetry name of an invocation step, e.g. "compile lib/a.c".
func VertexName(kind InvocationKind, subject string) string {
	return string(kind) + " " + subject
}
