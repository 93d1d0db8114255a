package compdb

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gryla/internal/adapters/fs"
	"go.trai.ch/gryla/internal/core/ports"
)

const NodeID graft.ID = "adapter.compile_database"

func init() {
	graft.Register(graft.Node[ports.CaptureSink]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.FileSystemNodeID},
		Run: func(ctx context.Context) (ports.CaptureSink, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(fsys), nil
		},
	})
}
