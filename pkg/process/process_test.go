// Copyright (c) Microsoft Corporation. All rights reserved.

package process_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/devhost/pkg/process"
	"github.com/microsoft/devhost/pkg/testutil"
)

func requirePosixShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test requires a POSIX shell")
	}
}

func TestRunToCompletionCapturesExitCode(t *testing.T) {
	t.Parallel()
	requirePosixShell(t)

	executor := process.NewOSExecutor(testutil.NewLogForTesting(t.Name()))
	testCtx, cancel := testutil.GetTestContext(t, 10*time.Second)
	defer cancel()

	cmd := exec.Command("sh", "-c", "exit 12")
	exitCode, err := process.RunToCompletion(testCtx, executor, cmd)
	require.NoError(t, err, "Program execution failed unexpectedly")
	require.Equal(t, int32(12), exitCode, "Program exit code was not captured properly")
}

// Tests that the process is terminated when the context expires.
func TestRunWithTimeoutDeadlineExceeded(t *testing.T) {
	t.Parallel()
	requirePosixShell(t)

	executor := process.NewOSExecutor(testutil.NewLogForTesting(t.Name()))

	// Command returns on its own after 10 seconds. This prevents the test from hanging.
	cmd := exec.Command("sh", "-c", "sleep 10")
	start := time.Now()
	ctx, cancelFn := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancelFn()

	_, err := process.RunWithTimeout(ctx, executor, cmd)

	elapsed := time.Since(start)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	if elapsed > 5*time.Second {
		t.Fatal("Process was not terminated timely")
	}
}

func TestStopProcess(t *testing.T) {
	t.Parallel()
	requirePosixShell(t)

	executor := process.NewOSExecutor(testutil.NewLogForTesting(t.Name()))
	testCtx, cancel := testutil.GetTestContext(t, 20*time.Second)
	defer cancel()

	exitInfoChan := make(chan process.ProcessExitInfo, 1)
	cmd := exec.CommandContext(testCtx, "sh", "-c", "sleep 30")
	pid, startWaitForProcessExit, err := executor.StartProcess(testCtx, cmd, process.NewChannelProcessExitHandler(exitInfoChan))
	require.NoError(t, err)
	startWaitForProcessExit()

	require.NoError(t, executor.StopProcess(pid))

	select {
	case <-testCtx.Done():
		t.Fatal("process did not exit after StopProcess")
	case ei := <-exitInfoChan:
		require.Equal(t, pid, ei.Pid)
	}
}

func TestGetProcessTreeIncludesRoot(t *testing.T) {
	t.Parallel()

	tree, err := process.GetProcessTree(int32(os.Getpid()))
	require.NoError(t, err)
	require.NotEmpty(t, tree)
	require.Equal(t, int32(os.Getpid()), tree[0])
}

func TestGetProcessTreeUnknownProcess(t *testing.T) {
	t.Parallel()

	// PIDs this large are not in use on any supported platform.
	_, err := process.GetProcessTree(1 << 30)
	require.ErrorIs(t, err, process.ErrProcessNotFound)
}
