package domain

import (
	"path/filepath"
	"strings"
)

// SourceFile is a single native source directly inside the source directory.
type SourceFile struct {
	Path string
}

// ObjectArtifact is the compiled output of exactly one SourceFile.
type ObjectArtifact struct {
	Path   string
	Source string
}

// LibraryArtifact is the shared library linked from every object of one invocation.
type LibraryArtifact struct {
	Path    string
	Objects []string
}

// ObjectPathFor maps a source path onto its object path in the same directory.
// The mapping only replaces the trailing source extension.
func ObjectPathFor(source string) string {
	return strings.TrimSuffix(source, SourceExt) + ObjectExt
}

// IsSourcePath reports whether path names a native source file by extension.
func IsSourcePath(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, SourceExt) && len(base) > len(SourceExt)
}

// Object returns the object artifact derived from the source.
func (s SourceFile) Object() ObjectArtifact {
	return ObjectArtifact{Path: ObjectPathFor(s.Path), Source: s.Path}
}
