package domain

import "path/filepath"

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "gryla.yaml"

	// StateDirName is the name of the internal state directory at the invocation root.
	StateDirName = ".gryla"

	// LinkStateFileName is the name of the persisted link manifest.
	LinkStateFileName = "link.json"

	// CompileDatabaseName is the default name of the compilation database for IDE tooling.
	CompileDatabaseName = "compile_commands.json"

	// SourceExt is the extension of native source files.
	SourceExt = ".c"

	// ObjectExt is the extension of compiled object artifacts.
	ObjectExt = ".o"

	// DefaultCompiler is the platform C compiler driver.
	DefaultCompiler = "cc"

	// DefaultSourceDir is the directory scanned for sources.
	DefaultSourceDir = "lib"

	// DefaultLibraryName is the shared library written at the invocation root.
	DefaultLibraryName = "libgryla.so"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStatePath returns the default path of the link manifest.
// It joins .gryla and link.json.
func DefaultStatePath() string {
	return filepath.Join(StateDirName, LinkStateFileName)
}
