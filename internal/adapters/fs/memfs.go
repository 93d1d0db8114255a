package fs

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/gryla/internal/core/ports"
)

var _ ports.FileSystem = (*MemFS)(nil)

// MemFS is an in-memory ports.FileSystem used as a test double for the engine.
//
// Modification times come from a logical clock that advances by one second on
// every mutation, so two writes are never observed as simultaneous unless a
// test sets the time explicitly with Touch.
type MemFS struct {
	mu    sync.Mutex
	files map[string]*memFile
	dirs  map[string]bool
	clock time.Time

	// RemoveErr, when set, is returned by Remove for the matching path.
	RemoveErr map[string]error
}

type memFile struct {
	data    []byte
	modTime time.Time
	perm    fs.FileMode
}

// NewMemFS creates an empty in-memory filesystem with the root directory present.
func NewMemFS() *MemFS {
	return &MemFS{
		files:     make(map[string]*memFile),
		dirs:      map[string]bool{".": true},
		clock:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		RemoveErr: make(map[string]error),
	}
}

func clean(name string) string {
	return path.Clean(filepath.ToSlash(name))
}

func (m *MemFS) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemFS) mkdirParents(name string) {
	for dir := path.Dir(name); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "." || dir == "/" {
			return
		}
	}
}

// Now returns the current logical time.
func (m *MemFS) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock
}

// Touch sets the modification time of an existing file, or creates an empty one.
func (m *MemFS) Touch(name string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	f, ok := m.files[name]
	if !ok {
		f = &memFile{perm: 0o644}
		m.files[name] = f
		m.mkdirParents(name)
	}
	f.modTime = modTime
	if modTime.After(m.clock) {
		m.clock = modTime
	}
}

// Exists reports whether a file is present.
func (m *MemFS) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[clean(name)]
	return ok
}

// Files returns the paths of every file, sorted.
func (m *MemFS) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for name := range m.files {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Stat returns file info for the given path.
func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if f, ok := m.files[name]; ok {
		return memInfo{name: path.Base(name), size: int64(len(f.data)), mode: f.perm, modTime: f.modTime}, nil
	}
	if m.dirs[name] {
		return memInfo{name: path.Base(name), mode: fs.ModeDir | 0o750}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadDir lists the direct children of a directory, sorted by name.
func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if !m.dirs[name] {
		if _, ok := m.files[name]; ok {
			return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
		}
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	var entries []fs.DirEntry
	for p, f := range m.files {
		if path.Dir(p) == name {
			info := memInfo{name: path.Base(p), size: int64(len(f.data)), mode: f.perm, modTime: f.modTime}
			entries = append(entries, fs.FileInfoToDirEntry(info))
		}
	}
	for d := range m.dirs {
		if d != name && path.Dir(d) == name {
			entries = append(entries, fs.FileInfoToDirEntry(memInfo{name: path.Base(d), mode: fs.ModeDir | 0o750}))
		}
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries, nil
}

// ReadFile returns a copy of the file contents.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return slices.Clone(f.data), nil
}

// WriteFile stores data and stamps the file with the next logical time.
func (m *MemFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if !m.dirs[path.Dir(name)] {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	m.files[name] = &memFile{data: slices.Clone(data), modTime: m.tick(), perm: perm}
	return nil
}

// MkdirAll creates a directory and its parents.
func (m *MemFS) MkdirAll(name string, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	m.dirs[name] = true
	m.mkdirParents(name)
	return nil
}

// Remove deletes a single file.
func (m *MemFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = clean(name)
	if err, ok := m.RemoveErr[name]; ok {
		return &fs.PathError{Op: "remove", Path: name, Err: err}
	}
	if _, ok := m.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

// Rename moves oldpath over newpath, keeping its modification time.
func (m *MemFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldpath, newpath = clean(oldpath), clean(newpath)
	f, ok := m.files[oldpath]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = f
	m.mkdirParents(newpath)
	return nil
}

type memInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (i memInfo) Name() string       { return i.name }
func (i memInfo) Size() int64        { return i.size }
func (i memInfo) Mode() fs.FileMode  { return i.mode }
func (i memInfo) ModTime() time.Time { return i.modTime }
func (i memInfo) IsDir() bool        { return i.mode.IsDir() }
func (i memInfo) Sys() any           { return nil }
