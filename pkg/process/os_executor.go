package process

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	"github.com/go-logr/logr"
)

type OSExecutor struct {
	lock sync.Mutex
	log  logr.Logger
}

func NewOSExecutor(log logr.Logger) Executor {
	return &OSExecutor{
		log: log.WithName("os-executor"),
	}
}

func (e *OSExecutor) StartProcess(ctx context.Context, cmd *exec.Cmd, handler ProcessExitHandler) (int32, func(), error) {
	if err := cmd.Start(); err != nil {
		return UnknownPID, nil, err
	}

	pid := int32(cmd.Process.Pid)

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	// Exit notifications are held back until the caller opens the gate.
	// This ties the lifetime of exit handling to the caller being ready for it.
	gate := make(chan struct{})
	var openGate sync.Once

	go func() {
		var waitErr error
		var stopErr error

		select {
		case waitErr = <-waitCh:
			// The process exited on its own.

		case <-ctx.Done():
			stopErr = e.StopProcess(pid)
			if stopErr != nil {
				e.log.Error(stopErr, "could not stop process after context cancellation", "PID", pid)
			}
			waitErr = <-waitCh
		}

		if handler == nil {
			return
		}

		<-gate

		exitCode, execErr := getProcessExecResult(waitErr, cmd)
		handler.OnProcessExited(pid, exitCode, errors.Join(stopErr, execErr, ctx.Err()))
	}()

	startWaitingForProcessExit := func() {
		openGate.Do(func() {
			close(gate)
		})
	}

	return pid, startWaitingForProcessExit, nil
}

func (e *OSExecutor) StopProcess(pid int32) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	return stopProcessTree(pid, e.log)
}

// Returns the process execution error and process exit code depending on the result of command wait call.
func getProcessExecResult(waitErr error, cmd *exec.Cmd) (int32, error) {
	var ee *exec.ExitError
	if waitErr == nil {
		return int32(cmd.ProcessState.ExitCode()), nil
	} else if errors.As(waitErr, &ee) {
		return int32(ee.ExitCode()), nil
	} else {
		return UnknownExitCode, waitErr
	}
}

var _ Executor = (*OSExecutor)(nil)
