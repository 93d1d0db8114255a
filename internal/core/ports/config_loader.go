package ports

import "go.trai.ch/gryla/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration: defaults, then the file at path
	// (relative to cwd), then environment overrides. An empty path selects the
	// default file name, which may be absent; an explicit path must exist.
	Load(cwd, path string) (*domain.BuildConfig, error)
}
