// Package graph implements the build graph engine: it maps sources to objects,
// compiles what is stale and links the shared library.
package graph

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Engine runs discovery, compilation, linking and cleanup for one configuration.
type Engine struct {
	cfg    *domain.BuildConfig
	fs     ports.FileSystem
	runner ports.ProcessRunner
	store  ports.LinkStore
	hasher ports.Fingerprinter
	tracer ports.Tracer
	logger ports.Logger

	root string
	now  func() time.Time
}

// NewEngine creates a new Engine. store and hasher may be nil, in which case
// relink decisions rest on modification times alone.
func NewEngine(
	cfg *domain.BuildConfig,
	fsys ports.FileSystem,
	runner ports.ProcessRunner,
	store ports.LinkStore,
	hasher ports.Fingerprinter,
	tracer ports.Tracer,
	logger ports.Logger,
) *Engine {
	return &Engine{
		cfg:    cfg.Clone(),
		fs:     fsys,
		runner: runner,
		store:  store,
		hasher: hasher,
		tracer: tracer,
		logger: logger,
		now:    time.Now,
	}
}

// WithRoot sets the absolute invocation root recorded in the compilation database.
func (e *Engine) WithRoot(root string) *Engine {
	e.root = root
	return e
}

// DiscoverSources lists the source files directly inside dir, ordered by path.
// Subdirectories are not searched. An empty result is valid.
func (e *Engine) DiscoverSources(ctx context.Context, dir string) ([]domain.SourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, &domain.DiscoveryError{Dir: dir, Err: err}
	}

	var sources []domain.SourceFile
	for _, entry := range entries {
		if entry.IsDir() || !domain.IsSourcePath(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !entry.Type().IsRegular() {
			// Symlinks count when they resolve to a regular file.
			info, statErr := e.fs.Stat(path)
			if statErr != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		sources = append(sources, domain.SourceFile{Path: path})
	}

	slices.SortFunc(sources, func(a, b domain.SourceFile) int {
		return strings.Compare(a.Path, b.Path)
	})
	return sources, nil
}

// NeedsRebuild reports whether obj is missing or strictly older than src.
// Equal modification times count as up to date.
func (e *Engine) NeedsRebuild(src domain.SourceFile, obj domain.ObjectArtifact) (bool, error) {
	srcInfo, err := e.fs.Stat(src.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, zerr.With(zerr.Wrap(domain.ErrSourceMissing, err.Error()), "source", src.Path)
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat source"), "source", src.Path)
	}

	objInfo, err := e.fs.Stat(obj.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat object"), "object", obj.Path)
	}

	return objInfo.ModTime().Before(srcInfo.ModTime()), nil
}

// Compile runs the compiler for one source and returns its object artifact.
func (e *Engine) Compile(ctx context.Context, src domain.SourceFile) (domain.ObjectArtifact, error) {
	ctx, span := e.tracer.Start(ctx, domain.VertexName(domain.InvocationCompile, src.Path))
	defer span.End()

	obj, err := e.compile(ctx, src, span)
	if err != nil {
		span.RecordError(err)
	}
	return obj, err
}

func (e *Engine) compile(ctx context.Context, src domain.SourceFile, span ports.Span) (domain.ObjectArtifact, error) {
	obj := src.Object()
	inv := domain.CompileInvocation(e.cfg, obj)

	res, err := e.run(ctx, inv)
	if len(res.Output) > 0 {
		_, _ = span.Write(res.Output)
	}
	if err != nil || !res.Success() {
		// A partly written object would be newer than its source.
		e.removePartial(obj.Path, "object")
		return obj, &domain.CompileError{
			Source:   src.Path,
			ExitCode: res.ExitCode,
			Output:   res.Output,
			Err:      err,
		}
	}
	return obj, nil
}

// NeedsRelink reports whether the library is missing or any object is strictly newer.
func (e *Engine) NeedsRelink(objects []string, library string) (bool, error) {
	libInfo, err := e.fs.Stat(library)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat library"), "library", library)
	}

	for _, obj := range objects {
		objInfo, err := e.fs.Stat(obj)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// The linker reports the missing input.
				return true, nil
			}
			return false, zerr.With(zerr.Wrap(err, "failed to stat object"), "object", obj)
		}
		if objInfo.ModTime().After(libInfo.ModTime()) {
			return true, nil
		}
	}
	return false, nil
}

// Link links objects into output. The linker writes a sibling temporary file
// that replaces output only on success, so a failed link leaves the previous
// library untouched.
func (e *Engine) Link(ctx context.Context, objects []string, output string) error {
	ctx, span := e.tracer.Start(ctx, domain.VertexName(domain.InvocationLink, output))
	defer span.End()

	if err := e.link(ctx, objects, output, span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (e *Engine) link(ctx context.Context, objects []string, output string, span ports.Span) error {
	tmp := TempPathFor(output)
	inv := domain.LinkInvocation(e.cfg, objects, tmp)

	res, err := e.run(ctx, inv)
	if len(res.Output) > 0 {
		_, _ = span.Write(res.Output)
	}
	if err != nil || !res.Success() {
		e.removePartial(tmp, "temporary library")
		return &domain.LinkError{
			Library:  output,
			ExitCode: res.ExitCode,
			Output:   res.Output,
			Err:      err,
		}
	}

	if err := e.fs.Rename(tmp, output); err != nil {
		e.removePartial(tmp, "temporary library")
		return &domain.LinkError{
			Library:  output,
			ExitCode: 1,
			Err:      zerr.With(zerr.Wrap(err, "failed to move linked library into place"), "temp", tmp),
		}
	}
	return nil
}

// TempPathFor returns the sibling temporary path the linker writes to.
func TempPathFor(output string) string {
	return filepath.Join(filepath.Dir(output), "."+filepath.Base(output)+".tmp")
}

func (e *Engine) removePartial(path, kind string) {
	if err := e.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.logger.Warn("failed to remove " + kind + " " + path + ": " + err.Error())
	}
}

// run executes one invocation under the configured per-tool timeout.
func (e *Engine) run(ctx context.Context, inv domain.Invocation) (domain.ProcessResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	return e.runner.Run(ctx, inv)
}

// BuildAll discovers sources, compiles the stale ones and relinks the library
// when needed.
//
// By default the first compile failure cancels the remaining compiles. With
// KeepGoing every stale source is attempted and all failures are reported.
// The link is never attempted after a compile failure.
func (e *Engine) BuildAll(ctx context.Context) (domain.BuildResult, error) {
	result := domain.BuildResult{Library: e.cfg.OutputLibrary}

	sources, err := e.DiscoverSources(ctx, e.cfg.SourceDir)
	if err != nil {
		return result, err
	}

	plan, err := domain.PlanSources(e.cfg.OutputLibrary, sources)
	if err != nil {
		return result, err
	}

	names := make([]string, 0, plan.Len()+1)
	for obj := range plan.Objects() {
		names = append(names, domain.VertexName(domain.InvocationCompile, obj.Source))
	}
	names = append(names, domain.VertexName(domain.InvocationLink, e.cfg.OutputLibrary))
	e.tracer.EmitPlan(ctx, names)

	if err := e.compileStale(ctx, plan, &result); err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, zerr.Wrap(err, "build interrupted")
	}

	lib := plan.Library()
	linked, err := e.linkIfNeeded(ctx, lib, len(result.Compiled) > 0)
	result.Linked = linked
	return result, err
}

func (e *Engine) compileStale(ctx context.Context, plan *domain.Plan, result *domain.BuildResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Jobs)

	var (
		mu       sync.Mutex
		failures []error
	)

	for obj := range plan.Objects() {
		src := domain.SourceFile{Path: obj.Source}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			stale, err := e.NeedsRebuild(src, obj)
			if err != nil {
				return e.recordFailure(&mu, &failures, err)
			}
			if !stale {
				_, span := e.tracer.Start(gctx, domain.VertexName(domain.InvocationCompile, src.Path))
				span.MarkCached()
				span.End()

				mu.Lock()
				result.UpToDate = append(result.UpToDate, src.Path)
				mu.Unlock()
				return nil
			}

			if _, err := e.Compile(gctx, src); err != nil {
				return e.recordFailure(&mu, &failures, err)
			}

			mu.Lock()
			result.Compiled = append(result.Compiled, src.Path)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	slices.Sort(result.Compiled)
	slices.Sort(result.UpToDate)

	if err != nil {
		return err
	}
	if len(failures) > 0 {
		slices.SortFunc(failures, compareFailures)
		return errors.Join(failures...)
	}
	return nil
}

// recordFailure returns err in fail-fast mode, cancelling sibling compiles.
// With KeepGoing it collects err and lets the other compiles continue.
func (e *Engine) recordFailure(mu *sync.Mutex, failures *[]error, err error) error {
	if !e.cfg.KeepGoing {
		return err
	}
	mu.Lock()
	*failures = append(*failures, err)
	mu.Unlock()
	return nil
}

func compareFailures(a, b error) int {
	var ca, cb *domain.CompileError
	if errors.As(a, &ca) && errors.As(b, &cb) {
		return strings.Compare(ca.Source, cb.Source)
	}
	return strings.Compare(a.Error(), b.Error())
}

// linkIfNeeded relinks when the library is stale by modification time, when
// any object was recompiled in this run, or when the link identity differs
// from the last recorded link.
func (e *Engine) linkIfNeeded(ctx context.Context, lib domain.LibraryArtifact, compiled bool) (bool, error) {
	stale, err := e.NeedsRelink(lib.Objects, lib.Path)
	if err != nil {
		return false, err
	}

	fingerprint := e.fingerprint(lib)
	record := e.lastRecord(lib.Path)
	changed := record != nil && !record.Matches(lib.Path, fingerprint)

	if !stale && !compiled && !changed {
		_, span := e.tracer.Start(ctx, domain.VertexName(domain.InvocationLink, lib.Path))
		span.MarkCached()
		span.End()

		if record == nil {
			// Adopt an existing library so later object-set changes are noticed.
			e.saveRecord(lib, fingerprint)
		}
		return false, nil
	}

	if err := e.Link(ctx, lib.Objects, lib.Path); err != nil {
		return false, err
	}
	e.saveRecord(lib, fingerprint)
	return true, nil
}

func (e *Engine) fingerprint(lib domain.LibraryArtifact) string {
	if e.hasher == nil {
		return ""
	}
	return e.hasher.Fingerprint(domain.LinkInvocation(e.cfg, lib.Objects, lib.Path).Argv())
}

func (e *Engine) lastRecord(library string) *domain.LinkRecord {
	if e.store == nil || e.hasher == nil {
		return nil
	}
	record, err := e.store.Get(library)
	if err != nil {
		e.logger.Warn("ignoring unreadable link state: " + err.Error())
		return nil
	}
	return record
}

func (e *Engine) saveRecord(lib domain.LibraryArtifact, fingerprint string) {
	if e.store == nil || e.hasher == nil {
		return
	}
	record := domain.NewLinkRecord(lib.Path, fingerprint, lib.Objects, e.now())
	if err := e.store.Put(record); err != nil {
		e.logger.Warn("failed to save link state: " + err.Error())
	}
}
