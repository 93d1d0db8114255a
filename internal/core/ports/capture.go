package ports

import (
	"context"

	"go.trai.ch/gryla/internal/core/domain"
)

// CaptureSink receives the invocations recorded during a build-with-capture run.
//
//go:generate go run go.uber.org/mock/mockgen -source=capture.go -destination=mocks/mock_capture.go -package=mocks
type CaptureSink interface {
	// Write persists the compile invocations into the database at path.
	// dir is the absolute directory the invocations ran in.
	Write(ctx context.Context, path, dir string, invocations []domain.Invocation) error
}
