package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gryla/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/adapters/compdb"             //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/gryla/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components is what main needs from the graph: the App and the logger used
// to report its errors.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			fs.FileSystemNodeID,
			fs.HasherNodeID,
			shell.NodeID,
			cas.NodeID,
			progrock.NodeID,
			compdb.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	runner, err := graft.Dep[ports.ProcessRunner](ctx)
	if err != nil {
		return nil, err
	}

	stores, err := graft.Dep[ports.LinkStoreOpener](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	sink, err := graft.Dep[ports.CaptureSink](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, fsys, runner, stores, hasher, tracer, sink, w), nil
}
