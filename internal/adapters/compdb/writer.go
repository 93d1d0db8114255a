// Package compdb writes the JSON compilation database consumed by IDE tooling.
package compdb

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CaptureSink = (*Writer)(nil)

// Entry is one compile command in the database.
type Entry struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
	File      string   `json:"file"`
	Output    string   `json:"output,omitempty"`
}

// Writer implements ports.CaptureSink by merging compile invocations into
// an existing database file.
type Writer struct {
	fs ports.FileSystem
}

// NewWriter creates a new Writer.
func NewWriter(fsys ports.FileSystem) *Writer {
	return &Writer{fs: fsys}
}

// Write merges the compile invocations into the database at path.
//
// Entries for files compiled in this run replace earlier ones. Earlier entries
// whose source no longer exists are dropped. Link invocations are ignored.
func (w *Writer) Write(ctx context.Context, path, dir string, invocations []domain.Invocation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := w.read(path)
	if err != nil {
		return err
	}

	merged := make(map[string]Entry, len(existing)+len(invocations))
	for _, e := range existing {
		if _, statErr := w.fs.Stat(sourcePath(e)); statErr != nil {
			continue
		}
		merged[e.File] = e
	}
	for _, inv := range invocations {
		if inv.Kind != domain.InvocationCompile || len(inv.Inputs) == 0 {
			continue
		}
		invDir := dir
		if inv.Dir != "" {
			invDir = inv.Dir
		}
		merged[inv.Inputs[0]] = Entry{
			Directory: invDir,
			Arguments: inv.Argv(),
			File:      inv.Inputs[0],
			Output:    inv.Output,
		}
	}

	entries := make([]Entry, 0, len(merged))
	for _, e := range merged {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.File, b.File)
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return zerr.Wrap(domain.ErrCaptureFailed, err.Error())
	}
	data = append(data, '\n')

	if parent := filepath.Dir(path); parent != "." {
		if err := w.fs.MkdirAll(parent, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrCaptureFailed, err.Error()), "path", path)
		}
	}
	if err := w.fs.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCaptureFailed, err.Error()), "path", path)
	}
	return nil
}

// read returns the entries stored at path. A missing file yields no entries.
func (w *Writer) read(path string) ([]Entry, error) {
	data, err := w.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrCaptureFailed, err.Error()), "path", path)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCaptureFailed, "existing database is not valid JSON"), "path", path)
	}
	return entries, nil
}

func sourcePath(e Entry) string {
	if filepath.IsAbs(e.File) {
		return e.File
	}
	return filepath.Join(e.Directory, e.File)
}
