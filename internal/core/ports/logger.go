package ports

// Logger reports build progress and problems to the user. Compiler and linker
// diagnostics are printed verbatim elsewhere and never pass through it.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info reports progress, such as a build summary.
	Info(msg string)
	// Warn reports a problem that does not fail the command.
	Warn(msg string)
	// Error reports a failure with its full cause chain.
	Error(err error)
}
