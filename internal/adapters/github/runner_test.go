package github_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfops/wfops/internal/adapters/github"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeGh installs a shell script named gh as the only PATH entry, so
// the runner resolves it instead of a real installation.
func fakeGh(t *testing.T, script string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "gh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	t.Setenv("PATH", dir)
}

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()

	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return logger
}

func TestNewRunner(t *testing.T) {
	fakeGh(t, "exit 0")

	runner, err := github.NewRunner(quietLogger(t))
	require.NoError(t, err)
	require.NotNil(t, runner)
}

func TestNewRunner_NotOnPath(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := github.NewRunner(quietLogger(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRunnerUnavailable)
}

func TestGhRunner_Run_CapturesStdout(t *testing.T) {
	fakeGh(t, `printf '{"ok":true}'`)

	runner, err := github.NewRunner(quietLogger(t))
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), "api", "rate_limit")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(res.Stdout))
	assert.Empty(t, res.Stderr)
	assert.Zero(t, res.ExitCode)
}

func TestGhRunner_Run_NonZeroExit(t *testing.T) {
	fakeGh(t, `echo 'HTTP 404: Not Found' >&2; exit 1`)

	runner, err := github.NewRunner(quietLogger(t))
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), "api", "repos/acme/gone")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "HTTP 404: Not Found", res.Stderr)
	assert.Empty(t, res.Stdout)
}

func TestGhRunner_Run_PreservesExitCode(t *testing.T) {
	fakeGh(t, "exit 22")

	runner, err := github.NewRunner(quietLogger(t))
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), "api", "rate_limit")
	require.NoError(t, err)
	assert.Equal(t, 22, res.ExitCode)
}

func TestGhRunner_Run_ArgumentsReachTool(t *testing.T) {
	fakeGh(t, `printf '%s\n' "$@"`)

	runner, err := github.NewRunner(quietLogger(t))
	require.NoError(t, err)

	res, err := runner.Run(context.Background(), "api", "-X", "DELETE", "repos/acme/widgets/actions/runs/7")
	require.NoError(t, err)

	out := string(res.Stdout)
	assert.Contains(t, out, "api\n")
	assert.Contains(t, out, "-X\n")
	assert.Contains(t, out, "DELETE\n")
	assert.Contains(t, out, "repos/acme/widgets/actions/runs/7\n")
}

func TestGhRunner_Run_Cancelled(t *testing.T) {
	fakeGh(t, "sleep 5")

	runner, err := github.NewRunner(quietLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := runner.Run(ctx, "api", "rate_limit")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, res.ExitCode)
}
