package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrDiscoveryFailed is returned when the source directory cannot be listed.
	ErrDiscoveryFailed = zerr.New("source discovery failed")

	// ErrCompileFailed is returned when the compiler exits with a non-zero status.
	ErrCompileFailed = zerr.New("compile failed")

	// ErrLinkFailed is returned when the linker exits with a non-zero status.
	ErrLinkFailed = zerr.New("link failed")

	// ErrCleanupFailed is attached to warnings for objects that could not be removed.
	ErrCleanupFailed = zerr.New("failed to remove object artifact")

	// ErrDuplicateObject is returned when two sources map onto the same object path.
	ErrDuplicateObject = zerr.New("duplicate object artifact")

	// ErrNotSource is returned when a path does not carry the source extension.
	ErrNotSource = zerr.New("not a source file")

	// ErrSourceMissing is returned when a discovered source vanished before it could be checked.
	ErrSourceMissing = zerr.New("source file missing")

	// ErrProcessTimedOut is returned when an external tool exceeds its time budget.
	ErrProcessTimedOut = zerr.New("process timed out")

	// ErrProcessNotStarted is returned when an external tool could not be started.
	ErrProcessNotStarted = zerr.New("process could not be started")

	// ErrInvalidConfig is returned when the configuration cannot be used.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrStoreReadFailed is returned when the link state cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read link state")

	// ErrStoreWriteFailed is returned when the link state cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write link state")

	// ErrCaptureFailed is returned when the compilation database cannot be written.
	ErrCaptureFailed = zerr.New("failed to write compilation database")
)

const (
	// ExitCodeTimedOut is the synthetic exit status reported for a killed, timed out tool.
	ExitCodeTimedOut = 124

	// ExitCodeNotStarted is the synthetic exit status reported when a tool could not be started.
	ExitCodeNotStarted = 127
)

// DiscoveryError reports a source directory that does not exist or cannot be read.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover sources in %s: %v", e.Dir, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *DiscoveryError) Unwrap() []error {
	return joinCauses(ErrDiscoveryFailed, e.Err)
}

// CompileError reports a source that failed to compile. Output holds the
// tool's combined stdout and stderr verbatim.
type CompileError struct {
	Source   string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: exit status %d", e.Source, e.ExitCode)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *CompileError) Unwrap() []error {
	return joinCauses(ErrCompileFailed, e.Err)
}

// LinkError reports a failed link of the shared library.
type LinkError struct {
	Library  string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s: exit status %d", e.Library, e.ExitCode)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *LinkError) Unwrap() []error {
	return joinCauses(ErrLinkFailed, e.Err)
}

// CleanupWarning reports an object artifact that clean could not remove.
// It never aborts the clean operation.
type CleanupWarning struct {
	Path string
	Err  error
}

func (w *CleanupWarning) Error() string {
	return fmt.Sprintf("remove %s: %v", w.Path, w.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (w *CleanupWarning) Unwrap() []error {
	return joinCauses(ErrCleanupFailed, w.Err)
}

func joinCauses(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}
