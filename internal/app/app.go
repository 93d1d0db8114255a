// Package app implements the application layer for gryla.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/gryla/internal/adapters/watcher" //nolint:depguard // Debouncer is wired in app layer
	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
	"go.trai.ch/gryla/internal/engine/graph"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	fs           ports.FileSystem
	runner       ports.ProcessRunner
	stores       ports.LinkStoreOpener
	hasher       ports.Fingerprinter
	tracer       ports.Tracer
	sink         ports.CaptureSink
	watcher      ports.Watcher

	root     string
	stderr   io.Writer
	debounce time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	fsys ports.FileSystem,
	runner ports.ProcessRunner,
	stores ports.LinkStoreOpener,
	hasher ports.Fingerprinter,
	tracer ports.Tracer,
	sink ports.CaptureSink,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		fs:           fsys,
		runner:       runner,
		stores:       stores,
		hasher:       hasher,
		tracer:       tracer,
		sink:         sink,
		watcher:      w,
		root:         ".",
		stderr:       os.Stderr,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithRoot sets the invocation root. It should be absolute; it is recorded in
// the compilation database.
func (a *App) WithRoot(dir string) *App {
	a.root = dir
	return a
}

// WithOutput sets where failing tool output is printed.
func (a *App) WithOutput(w io.Writer) *App {
	a.stderr = w
	return a
}

// WithDebounceWindow sets how long watch mode waits for changes to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// BuildOptions carries the command line overrides. Zero values leave the
// loaded configuration untouched.
type BuildOptions struct {
	ConfigPath        string
	Compiler          string
	ExtraCompileFlags []string
	SourceDir         string
	OutputLibrary     string
	Jobs              int
	Timeout           time.Duration
	KeepGoing         bool
}

func (o BuildOptions) apply(cfg *domain.BuildConfig) {
	if o.Compiler != "" {
		cfg.Compiler = o.Compiler
	}
	if o.ExtraCompileFlags != nil {
		cfg.ExtraCompileFlags = append([]string(nil), o.ExtraCompileFlags...)
	}
	if o.SourceDir != "" {
		cfg.SourceDir = o.SourceDir
	}
	if o.OutputLibrary != "" {
		cfg.OutputLibrary = o.OutputLibrary
	}
	if o.Jobs != 0 {
		cfg.Jobs = o.Jobs
	}
	if o.Timeout != 0 {
		cfg.Timeout = o.Timeout
	}
	if o.KeepGoing {
		cfg.KeepGoing = true
	}
}

// Config resolves the effective configuration: file and environment through the
// loader, then the command line overrides.
func (a *App) Config(opts BuildOptions) (*domain.BuildConfig, error) {
	cfg, err := a.configLoader.Load(a.root, opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *App) engine(cfg *domain.BuildConfig) *graph.Engine {
	var store ports.LinkStore
	if cfg.StatePath != "" {
		s, err := a.stores.Open(cfg.StatePath)
		if err != nil {
			a.logger.Warn("link state unavailable, relinking on timestamps only: " + err.Error())
		} else {
			store = s
		}
	}
	return graph.NewEngine(cfg, a.fs, a.runner, store, a.hasher, a.tracer, a.logger).WithRoot(a.root)
}

// Build compiles stale sources and relinks the library when needed.
func (a *App) Build(ctx context.Context, opts BuildOptions) (domain.BuildResult, error) {
	cfg, err := a.Config(opts)
	if err != nil {
		return domain.BuildResult{}, err
	}
	defer a.closeTracer()

	res, err := a.engine(cfg).BuildAll(ctx)
	return res, a.report(res, err)
}

// BuildWithCapture builds like Build and writes the compilation database.
func (a *App) BuildWithCapture(ctx context.Context, opts BuildOptions) (domain.BuildResult, error) {
	cfg, err := a.Config(opts)
	if err != nil {
		return domain.BuildResult{}, err
	}
	defer a.closeTracer()

	res, err := a.engine(cfg).BuildWithCapture(ctx, a.sink)
	if res.CompileDatabase != "" {
		a.logger.Info("wrote " + res.CompileDatabase)
	}
	return res, a.report(res, err)
}

// Clean removes the object artifacts of the current sources. The library is kept.
func (a *App) Clean(ctx context.Context, opts BuildOptions) (int, error) {
	cfg, err := a.Config(opts)
	if err != nil {
		return 0, err
	}

	removed, err := a.engine(cfg).Clean(ctx)
	if err != nil {
		return removed, zerr.Wrap(err, "clean failed")
	}
	a.logger.Info(fmt.Sprintf("removed %d object file(s)", removed))
	return removed, nil
}

// report logs the outcome of a build and prints failing tool output verbatim.
func (a *App) report(res domain.BuildResult, err error) error {
	if err == nil {
		switch {
		case res.NothingToDo():
			a.logger.Info("nothing to do, " + res.Library + " is up to date")
		case res.Linked:
			a.logger.Info(fmt.Sprintf("compiled %d source(s), linked %s", len(res.Compiled), res.Library))
		default:
			a.logger.Info(fmt.Sprintf("compiled %d source(s)", len(res.Compiled)))
		}
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return zerr.Wrap(err, "build interrupted")
	}
	for _, failure := range ToolFailures(err) {
		if output := failureOutput(failure); len(output) > 0 {
			_, _ = a.stderr.Write(output)
		}
	}
	return zerr.Wrap(err, "build failed")
}

func (a *App) closeTracer() {
	if c, ok := a.tracer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to flush progress output: " + err.Error())
		}
	}
}

// Watch builds once, then rebuilds whenever a source in the source directory
// changes. It returns when ctx is cancelled. Build failures are logged and do
// not stop watching.
func (a *App) Watch(ctx context.Context, opts BuildOptions) error {
	cfg, err := a.Config(opts)
	if err != nil {
		return err
	}
	defer a.closeTracer()

	rebuild := func() {
		res, err := a.engine(cfg).BuildAll(ctx)
		if err := a.report(res, err); err != nil && ctx.Err() == nil {
			a.logger.Error(err)
		}
	}

	rebuild()
	if ctx.Err() != nil {
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.watcher.Start(watchCtx, cfg.SourceDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch source directory"), "dir", cfg.SourceDir)
	}
	a.logger.Info("watching " + cfg.SourceDir + " for changes")

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(_ []string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for event := range a.watcher.Events() {
			if domain.IsSourcePath(event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			cancel()
			if err := a.watcher.Stop(); err != nil {
				a.logger.Warn("failed to stop watcher: " + err.Error())
			}
			<-drained
			return nil
		case <-trigger:
			a.logger.Info("change detected, rebuilding")
			rebuild()
		}
	}
}
