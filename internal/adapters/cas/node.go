package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/gryla/internal/adapters/fs"
	"go.trai.ch/gryla/internal/core/ports"
)

const NodeID graft.ID = "adapter.link_store"

func init() {
	graft.Register(graft.Node[ports.LinkStoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.FileSystemNodeID},
		Run: func(ctx context.Context) (ports.LinkStoreOpener, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewOpener(fsys), nil
		},
	})
}
