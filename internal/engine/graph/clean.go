package graph

import (
	"context"
	"errors"
	"io/fs"

	"go.trai.ch/gryla/internal/core/domain"
)

// Clean removes every object artifact derivable from the current sources and
// returns how many were removed. Sources, the library and the link state are
// never touched. A missing source directory means there is nothing to clean.
// Removal failures are logged as warnings and do not fail the operation.
func (e *Engine) Clean(ctx context.Context) (int, error) {
	sources, err := e.DiscoverSources(ctx, e.cfg.SourceDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		obj := src.Object()
		err := e.fs.Remove(obj.Path)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			warning := &domain.CleanupWarning{Path: obj.Path, Err: err}
			e.logger.Warn(warning.Error())
		}
	}
	return removed, nil
}
