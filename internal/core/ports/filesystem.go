// Package ports defines the core interfaces for the application.
package ports

import "io/fs"

// FileSystem is the filesystem surface the build engine needs.
// Paths are interpreted relative to the invocation root.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Stat returns file info. A missing file yields an error matching fs.ErrNotExist.
	Stat(name string) (fs.FileInfo, error)
	// ReadDir lists a directory without recursing, sorted by name.
	ReadDir(name string) ([]fs.DirEntry, error)
	// ReadFile returns the contents of a file.
	ReadFile(name string) ([]byte, error)
	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(name string, perm fs.FileMode) error
	// Remove deletes a single file.
	Remove(name string) error
	// Rename atomically replaces newpath with oldpath.
	Rename(oldpath, newpath string) error
}
