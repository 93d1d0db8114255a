package domain

import (
	"runtime"
	"slices"
	"time"

	"go.trai.ch/zerr"
)

// DefaultTimeout bounds a single compiler or linker run.
const DefaultTimeout = 10 * time.Minute

var (
	// CompileFlags are always passed to the compiler: debug info and position-independent code.
	CompileFlags = []string{"-g", "-fPIC"}

	// LinkFlags are always passed when linking the shared library.
	LinkFlags = []string{"-shared"}
)

// BuildConfig holds the resolved configuration of one invocation.
type BuildConfig struct {
	Compiler          string
	ExtraCompileFlags []string
	SourceDir         string
	OutputLibrary     string
	Jobs              int
	Timeout           time.Duration
	KeepGoing         bool
	CompileDatabase   string
	StatePath         string
}

// DefaultBuildConfig returns the configuration used when nothing overrides it.
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		Compiler:        DefaultCompiler,
		SourceDir:       DefaultSourceDir,
		OutputLibrary:   DefaultLibraryName,
		Jobs:            runtime.NumCPU(),
		Timeout:         DefaultTimeout,
		CompileDatabase: CompileDatabaseName,
		StatePath:       DefaultStatePath(),
	}
}

// Clone returns a deep copy of the configuration.
func (c *BuildConfig) Clone() *BuildConfig {
	cp := *c
	cp.ExtraCompileFlags = slices.Clone(c.ExtraCompileFlags)
	return &cp
}

// Validate checks that the configuration can drive a build.
func (c *BuildConfig) Validate() error {
	switch {
	case c.Compiler == "":
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "compiler is empty"), "field", "compiler")
	case c.SourceDir == "":
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "source directory is empty"), "field", "source_dir")
	case c.OutputLibrary == "":
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "output library is empty"), "field", "output")
	case c.Jobs < 1:
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "jobs must be positive"), "jobs", c.Jobs)
	case c.Timeout <= 0:
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "timeout must be positive"), "timeout", c.Timeout.String())
	}
	return nil
}
