package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/gryla/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			level, err := ParseLevel(os.Getenv(LevelEnv))
			log := NewWithLevel(os.Stderr, level)
			if err != nil {
				log.Warn(err.Error())
			}
			return log, nil
		},
	})
}
