//go:build unix

package shell_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gryla/internal/adapters/shell"
	"go.trai.ch/gryla/internal/core/domain"
	"go.trai.ch/gryla/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func shInvocation(script string) domain.Invocation {
	return domain.Invocation{
		Kind: domain.InvocationCompile,
		Tool: "sh",
		Args: []string{"-c", script},
	}
}

func TestRunner_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := shell.NewRunner(mocks.NewMockLogger(ctrl))

	res, err := runner.Run(context.Background(), shInvocation("echo out; echo err >&2"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, string(res.Output), "out\n")
	assert.Contains(t, string(res.Output), "err\n")
}

func TestRunner_NonZeroExitIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := shell.NewRunner(mocks.NewMockLogger(ctrl))

	res, err := runner.Run(context.Background(), shInvocation("echo 'b.c:1: error: expected ;' >&2; exit 3"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "b.c:1: error: expected ;\n", string(res.Output))
}

func TestRunner_WorkingDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := shell.NewRunner(mocks.NewMockLogger(ctrl))

	dir := t.TempDir()
	inv := shInvocation("touch marker")
	inv.Dir = dir

	_, err := runner.Run(context.Background(), inv)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "marker"))
	assert.NoError(t, err)
}

func TestRunner_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	runner := shell.NewRunner(log)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := runner.Run(ctx, shInvocation("echo started; sleep 30 & wait"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProcessTimedOut))
	assert.Equal(t, domain.ExitCodeTimedOut, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second, "the whole process group must be killed")
}

func TestRunner_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	runner := shell.NewRunner(log)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := runner.Run(ctx, shInvocation("sleep 30"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, domain.ErrProcessTimedOut))
}

func TestRunner_ToolNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := shell.NewRunner(mocks.NewMockLogger(ctrl))

	res, err := runner.Run(context.Background(), domain.Invocation{Tool: "gryla-no-such-compiler"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProcessNotStarted))
	assert.Equal(t, domain.ExitCodeNotStarted, res.ExitCode)
}

func TestRunner_EmptyTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := shell.NewRunner(mocks.NewMockLogger(ctrl))

	_, err := runner.Run(context.Background(), domain.Invocation{})
	assert.True(t, errors.Is(err, domain.ErrProcessNotStarted))
}
