package ports

import "context"

// RunnerResult is the captured outcome of one external command.
type RunnerResult struct {
	// Stdout is the raw standard output, byte exact.
	Stdout []byte

	// Stderr is the captured standard error, used for diagnostics.
	Stderr string

	// ExitCode is the process exit code, 0 on success.
	ExitCode int
}

// Runner executes the external API command line tool. Authentication and
// session state are entirely the tool's concern.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run invokes the tool with the given arguments and captures the
	// result. A non-zero exit is reported via the result, not as an
	// error; the error is reserved for spawn failures.
	Run(ctx context.Context, args ...string) (RunnerResult, error)
}
