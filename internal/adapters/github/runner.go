// Package github adapts the gh command line tool into the runner and
// API client ports. Authentication, host selection and HTTP transport
// are entirely gh's concern; this package only shells out and applies
// the caching and rate limit policy on top.
package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"go.trai.ch/zerr"
)

// ghExecutable is the command every API interaction goes through.
const ghExecutable = "gh"

var _ ports.Runner = (*GhRunner)(nil)

// GhRunner executes gh with captured output.
type GhRunner struct {
	path   string
	logger ports.Logger
}

// NewRunner locates gh on PATH. A missing executable is reported as
// domain.ErrRunnerUnavailable so startup can fail before any work.
func NewRunner(logger ports.Logger) (*GhRunner, error) {
	path, err := exec.LookPath(ghExecutable)
	if err != nil {
		return nil, errors.Join(domain.ErrRunnerUnavailable, err)
	}

	return &GhRunner{path: path, logger: logger}, nil
}

// Run invokes gh with the given arguments and captures stdout, stderr
// and the exit code. A non-zero exit lands in the result; the error
// return is reserved for spawn failures and cancellation.
func (r *GhRunner) Run(ctx context.Context, args ...string) (ports.RunnerResult, error) {
	var stdout, stderr bytes.Buffer

	//nolint:gosec // G204: the executable is fixed, arguments are endpoint strings.
	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug(fmt.Sprintf("running gh %s", strings.Join(args, " ")))

	err := cmd.Run()
	result := ports.RunnerResult{
		Stdout: stdout.Bytes(),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return result, nil
	}

	if ctx.Err() != nil {
		result.ExitCode = -1
		return result, zerr.Wrap(ctx.Err(), "gh interrupted")
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	// The process never ran, so there is no exit code to report.
	result.ExitCode = -1
	return result, zerr.With(zerr.Wrap(err, "failed to run gh"), "args", strings.Join(args, " "))
}
