// Package main is the entry point for the gryla build tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/gryla/cmd/gryla/commands"
	"go.trai.ch/gryla/internal/app"
	_ "go.trai.ch/gryla/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return app.ExitFailure
	}

	cwd, err := os.Getwd()
	if err != nil {
		components.Logger.Error(err)
		return app.ExitFailure
	}
	components.App.WithRoot(cwd)

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)
	if err := cli.Execute(ctx); err != nil {
		code := app.ExitCode(err)
		if code != app.ExitInterrupted {
			components.Logger.Error(err)
		}
		return code
	}
	return 0
}
