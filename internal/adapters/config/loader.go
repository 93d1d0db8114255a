// Package config provides the configuration loader for gryla.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file.
const (
	EnvCompiler = "CC"
	EnvCFlags   = "CFLAGS"
	EnvJobs     = "GRYLA_JOBS"
)

// SchemaVersion is the configuration file version this loader understands.
const SchemaVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file and the process environment.
type Loader struct {
	fs     ports.FileSystem
	logger ports.Logger
	lookup func(string) (string, bool)
}

// NewLoader creates a new Loader.
func NewLoader(fsys ports.FileSystem, logger ports.Logger) *Loader {
	return &Loader{fs: fsys, logger: logger, lookup: os.LookupEnv}
}

// WithLookupEnv replaces the environment lookup, mainly for tests.
func (l *Loader) WithLookupEnv(lookup func(string) (string, bool)) *Loader {
	l.lookup = lookup
	return l
}

// Load resolves defaults < file < environment.
func (l *Loader) Load(cwd, path string) (*domain.BuildConfig, error) {
	required := path != ""
	if path == "" {
		path = domain.ConfigFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	cfg := domain.DefaultBuildConfig()

	data, err := l.fs.ReadFile(path)
	switch {
	case err == nil:
		file, parseErr := Parse(data)
		if parseErr != nil {
			return nil, zerr.With(parseErr, "path", path)
		}
		if file.Version != "" && file.Version != SchemaVersion {
			l.logger.Warn("unsupported config version " + strconv.Quote(file.Version) + " in " + path)
		}
		if err := file.apply(cfg); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// The config file is optional.
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration file. Unknown keys are rejected.
func Parse(data []byte) (*Grylafile, error) {
	var file Grylafile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(domain.ErrConfigParseFailed, err.Error())
	}
	return &file, nil
}

func (f *Grylafile) apply(cfg *domain.BuildConfig) error {
	setString(&cfg.Compiler, f.Compiler)
	setString(&cfg.SourceDir, f.SourceDir)
	setString(&cfg.OutputLibrary, f.Output)
	setString(&cfg.CompileDatabase, f.CompileDatabase)
	setString(&cfg.StatePath, f.StatePath)
	if f.CFlags != nil {
		cfg.ExtraCompileFlags = append([]string(nil), f.CFlags...)
	}
	if f.Jobs != nil {
		cfg.Jobs = *f.Jobs
	}
	if f.KeepGoing != nil {
		cfg.KeepGoing = *f.KeepGoing
	}
	if f.Timeout != nil {
		d, err := time.ParseDuration(*f.Timeout)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid timeout"), "timeout", *f.Timeout)
		}
		cfg.Timeout = d
	}
	return nil
}

func (l *Loader) applyEnv(cfg *domain.BuildConfig) error {
	if v, ok := l.lookup(EnvCompiler); ok && v != "" {
		cfg.Compiler = v
	}
	if v, ok := l.lookup(EnvCFlags); ok {
		cfg.ExtraCompileFlags = strings.Fields(v)
	}
	if v, ok := l.lookup(EnvJobs); ok && v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid "+EnvJobs), "value", v)
		}
		cfg.Jobs = jobs
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
