package ports

import (
	"context"

	"go.trai.ch/gryla/internal/core/domain"
)

// ProcessRunner runs external compiler and linker invocations.
//
//go:generate go run go.uber.org/mock/mockgen -source=process.go -destination=mocks/mock_process.go -package=mocks
type ProcessRunner interface {
	// Run executes the invocation and waits for it to finish.
	//
	// A tool that exits non-zero is not an error: the status is reported in the
	// result together with the captured output. An error is returned only when
	// the tool could not be started, timed out or was cancelled; in those cases
	// the result still carries whatever output was captured.
	Run(ctx context.Context, inv domain.Invocation) (domain.ProcessResult, error)
}
