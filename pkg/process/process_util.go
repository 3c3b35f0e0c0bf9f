// Copyright (c) Microsoft Corporation. All rights reserved.

package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/go-logr/logr"
	ps "github.com/shirou/gopsutil/v4/process"

	"github.com/microsoft/devhost/pkg/resiliency"
)

// Essentially the same as ps.ErrorProcessNotRunning, but we do not want to
// expose the ps package outside of this package.
var ErrProcessNotFound = errors.New("process does not exist")

// Returns the list of PIDs for a given process and its children.
// The list is ordered starting with the root of the hierarchy, then the children, then the grandchildren etc.
func GetProcessTree(rootPid int32) ([]int32, error) {
	root, err := findPsProcess(rootPid)
	if err != nil {
		return nil, err
	}

	tree := []int32{}
	next := []*ps.Process{root}

	for len(next) > 0 {
		current := next[0]
		next = next[1:]
		tree = append(tree, current.Pid)

		children, childrenErr := current.Children()
		if childrenErr != nil {
			// If we fail to get the children, assume there are no children.
			children = []*ps.Process{}
		}

		next = append(next, children...)
	}

	return tree, nil
}

func stopProcessTree(rootPid int32, log logr.Logger) error {
	tree, err := GetProcessTree(rootPid)
	if err != nil {
		if errors.Is(err, ErrProcessNotFound) {
			return nil
		}
		return fmt.Errorf("could not get process tree for process %d: %w", rootPid, err)
	}

	log.V(1).Info("stopping process tree", "root", rootPid, "tree", tree)

	// If the root process cannot be stopped, don't bother with the rest of the tree.
	if stopErr := stopSingleProcess(rootPid); stopErr != nil {
		log.Error(stopErr, "could not stop root process", "root", rootPid)
		return stopErr
	}

	var childErrs []error
	for _, childPid := range tree[1:] {
		// Retry stopping the child process as we occasionally see transient "Access Denied" errors.
		const childStopTimeout = 2 * time.Second
		childStopErr := resiliency.RetryExponentialWithTimeout(context.Background(), childStopTimeout, func() error {
			return stopSingleProcess(childPid)
		})
		if childStopErr != nil {
			childErrs = append(childErrs, childStopErr)
		}
	}
	if len(childErrs) > 0 {
		return fmt.Errorf("some children processes could not be stopped: %w", errors.Join(childErrs...))
	}

	return nil
}

func stopSingleProcess(pid int32) error {
	proc, err := ps.NewProcess(pid)
	if err != nil {
		if errors.Is(err, ps.ErrorProcessNotRunning) {
			return nil
		}
		return err
	}

	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Runs the command as a child process to completion.
// Returns exit code, or error if the process could not be started/tracked for some reason.
//
// The context parameter is used to request cancellation of the process, but the call to RunToCompletion() will not return
// until the process exits and all its output is captured.
func RunToCompletion(ctx context.Context, executor Executor, cmd *exec.Cmd) (int32, error) {
	pic := make(chan ProcessExitInfo, 1)
	peh := NewChannelProcessExitHandler(pic)

	_, startWaitForProcessExit, err := executor.StartProcess(ctx, cmd, peh)
	if err != nil {
		return UnknownExitCode, err
	}

	startWaitForProcessExit()

	// Only exit when the process exits--do not exit merely because the context is cancelled.
	exitInfo := <-pic
	return exitInfo.ExitCode, exitInfo.Err
}

type resultOrError[T any] struct {
	result T
	err    error
}

// Runs the command as a child process to completion, unless the passed context is cancelled,
// or its deadline is exceeded.
func RunWithTimeout(ctx context.Context, executor Executor, cmd *exec.Cmd) (int32, error) {
	resultCh := make(chan resultOrError[int32], 1)
	go func() {
		exitCode, err := RunToCompletion(ctx, executor, cmd)
		resultCh <- resultOrError[int32]{exitCode, err}
	}()

	select {
	case <-ctx.Done():
		return UnknownExitCode, ctx.Err()
	case runResult := <-resultCh:
		return runResult.result, runResult.err
	}
}

// Returns the creation time as a time.Time for a process.
// This time is intended for display purposes; the value can change due to clock adjustments etc.
func StartTimeForProcess(pid int32) time.Time {
	proc, procErr := ps.NewProcess(pid)
	if procErr != nil {
		return time.Time{}
	}

	createTimestamp, err := proc.CreateTime()
	if err != nil {
		return time.Time{}
	}

	return time.UnixMilli(createTimestamp)
}

func findPsProcess(pid int32) (*ps.Process, error) {
	proc, procErr := ps.NewProcess(pid)
	if procErr != nil {
		if !errors.Is(procErr, ps.ErrorProcessNotRunning) {
			return nil, procErr
		}
		return nil, fmt.Errorf("process with pid %d does not exist: %w", pid, ErrProcessNotFound)
	}

	return proc, nil
}
