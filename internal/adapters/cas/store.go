// Package cas implements the persisted link manifest used for relink detection.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LinkStore = (*Store)(nil)

// Store implements ports.LinkStore using a flat JSON file keyed by library path.
type Store struct {
	fs    ports.FileSystem
	path  string
	mu    sync.RWMutex
	cache map[string]domain.LinkRecord
}

// NewStore creates a new LinkStore backed by the file at the given path.
// A missing or empty file yields an empty store.
func NewStore(fsys ports.FileSystem, path string) (*Store, error) {
	s := &Store{
		fs:    fsys,
		path:  filepath.Clean(path),
		cache: make(map[string]domain.LinkRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", s.path)
	}

	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(domain.ErrStoreWriteFailed, err.Error())
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}

	if err := s.fs.WriteFile(s.path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", s.path)
	}

	return nil
}

// Get retrieves the record for a library. Returns nil, nil if not found.
func (s *Store) Get(library string) (*domain.LinkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cache[library]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores the record and writes the manifest to disk.
func (s *Store) Put(record *domain.LinkRecord) error {
	if record == nil {
		return nil
	}

	s.mu.Lock()
	s.cache[record.Library] = *record
	s.mu.Unlock()

	return s.save()
}

// Opener implements ports.LinkStoreOpener on a shared filesystem.
type Opener struct {
	fs ports.FileSystem
}

// NewOpener creates a new Opener.
func NewOpener(fsys ports.FileSystem) *Opener {
	return &Opener{fs: fsys}
}

// Open loads the store at path.
func (o *Opener) Open(path string) (ports.LinkStore, error) {
	return NewStore(o.fs, path)
}
