// Package main is the entry point for the wfops automation harness.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"github.com/wfops/wfops/cmd/wfops/commands"
	"github.com/wfops/wfops/internal/app"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	_ "github.com/wfops/wfops/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
	exitSignal  = 130
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		if errors.Is(err, domain.ErrConfigInvalid) {
			return exitUsage
		}
		return exitFailure
	}

	// Apply options
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		return exitCode(err, components.Logger)
	}
	return exitSuccess
}

// exitCode maps an execution error to the process exit code. Job and
// validation failures were already rendered per item, so they exit
// without an extra log line.
func exitCode(err error, log ports.Logger) int {
	switch {
	case errors.Is(err, domain.ErrInterrupted):
		return exitSignal
	case errors.Is(err, domain.ErrJobsFailed), errors.Is(err, domain.ErrValidationFailed):
		return exitFailure
	case errors.Is(err, domain.ErrConfigInvalid),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownFunction),
		errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrRepositoryUnknown):
		log.Error(err)
		return exitUsage
	default:
		log.Error(err)
		return exitFailure
	}
}
