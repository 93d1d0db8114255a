// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/gryla/internal/adapters/cas"
	_ "go.trai.ch/gryla/internal/adapters/compdb"
	_ "go.trai.ch/gryla/internal/adapters/config"
	_ "go.trai.ch/gryla/internal/adapters/fs"
	_ "go.trai.ch/gryla/internal/adapters/logger"
	_ "go.trai.ch/gryla/internal/adapters/shell"
	_ "go.trai.ch/gryla/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/gryla/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/gryla/internal/app"
)
