// Package fs provides file system adapters for the build engine.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/gryla/internal/core/ports"
)

var _ ports.FileSystem = (*OSFS)(nil)

// OSFS implements ports.FileSystem on the host filesystem.
// Relative paths resolve against Root; an empty Root means the process working directory.
type OSFS struct {
	Root string
}

// NewOSFS creates a new OSFS rooted at root.
func NewOSFS(root string) *OSFS {
	return &OSFS{Root: root}
}

func (o *OSFS) resolve(name string) string {
	if o.Root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.Root, name)
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(o.resolve(name))
}

// ReadDir lists a directory sorted by name.
func (o *OSFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(o.resolve(name))
}

// ReadFile reads the entire file at path.
func (o *OSFS) ReadFile(name string) ([]byte, error) {
	// #nosec G304 -- path is derived from the configured source directory
	return os.ReadFile(o.resolve(name))
}

// WriteFile writes data to the named file.
func (o *OSFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(o.resolve(name), data, perm)
}

// MkdirAll creates a directory and its parents.
func (o *OSFS) MkdirAll(name string, perm fs.FileMode) error {
	return os.MkdirAll(o.resolve(name), perm)
}

// Remove deletes a single file.
func (o *OSFS) Remove(name string) error {
	return os.Remove(o.resolve(name))
}

// Rename moves oldpath over newpath.
func (o *OSFS) Rename(oldpath, newpath string) error {
	return os.Rename(o.resolve(oldpath), o.resolve(newpath))
}
