package app

import (
	"context"
	"errors"

	"go.trai.ch/gryla/internal/core/domain"
)

const (
	// ExitFailure is the exit status for failures without a tool status.
	ExitFailure = 1
	// ExitInterrupted is the exit status after SIGINT or SIGTERM.
	ExitInterrupted = 130
)

// ToolFailures returns every compile and link failure in err, in the order
// they appear in its tree.
func ToolFailures(err error) []error {
	var out []error
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		switch e.(type) {
		case *domain.CompileError, *domain.LinkError:
			out = append(out, e)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

func failureOutput(err error) []byte {
	switch e := err.(type) {
	case *domain.CompileError:
		return e.Output
	case *domain.LinkError:
		return e.Output
	}
	return nil
}

func failureStatus(err error) int {
	switch e := err.(type) {
	case *domain.CompileError:
		return e.ExitCode
	case *domain.LinkError:
		return e.ExitCode
	}
	return 0
}

// ExitCode maps a command error to a process exit status: 0 on success, 130
// when interrupted, the failing tool's status when it is positive, otherwise 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	for _, failure := range ToolFailures(err) {
		if status := failureStatus(failure); status > 0 && status < 256 {
			return status
		}
	}
	return ExitFailure
}
