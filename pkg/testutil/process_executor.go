package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/microsoft/devhost/pkg/process"
)

type ProcessExecution struct {
	PID                int32
	Cmd                *exec.Cmd
	StartWaitingCalled bool
	startWaitingChan   chan struct{}
	StartedAt          time.Time
	EndedAt            time.Time
	ExitHandler        process.ProcessExitHandler
	ExitCode           int32
}

func (pe *ProcessExecution) Running() bool {
	return pe.EndedAt.IsZero()
}
func (pe *ProcessExecution) Finished() bool {
	return !pe.EndedAt.IsZero()
}

// AutoExecution automatically and asynchronously completes an execution of
// a command whose path and leading arguments match Command.
type AutoExecution struct {
	Command []string

	// Called after the process is "running"; may write to command stdout and
	// stderr. The return value is the exit code for the command.
	RunCommand func(pe *ProcessExecution) int32

	// If not nil, StartProcess() fails with this error and RunCommand is not called.
	StartupError error
}

func (ae *AutoExecution) matches(pe *ProcessExecution) bool {
	if len(ae.Command) == 0 {
		return false
	}

	cmdPath := ae.Command[0]
	if path.IsAbs(cmdPath) {
		if pe.Cmd.Path != cmdPath {
			return false
		}
	} else if !strings.Contains(pe.Cmd.Path, cmdPath) {
		return false
	}

	args := pe.Cmd.Args
	if len(args) < len(ae.Command) {
		return false
	}
	for i, arg := range ae.Command[1:] {
		if args[i+1] != arg {
			return false
		}
	}

	return true
}

// TestProcessExecutor is a process.Executor that simulates child processes.
// Tests inspect started commands via Executions and finish them via
// SimulateProcessExit or installed AutoExecutions.
type TestProcessExecutor struct {
	nextPID        int64
	Executions     []ProcessExecution
	AutoExecutions []AutoExecution
	m              *sync.RWMutex
	lifetimeCtx    context.Context
}

const (
	NotFound              = -1
	KilledProcessExitCode = 137 // 128 + SIGKILL (9)
)

func NewTestProcessExecutor(lifetimeCtx context.Context) *TestProcessExecutor {
	return &TestProcessExecutor{
		m:           &sync.RWMutex{},
		lifetimeCtx: lifetimeCtx,
	}
}

func (e *TestProcessExecutor) StartProcess(ctx context.Context, cmd *exec.Cmd, handler process.ProcessExitHandler) (int32, func(), error) {
	pid := int32(atomic.AddInt64(&e.nextPID, 1))

	e.m.Lock()
	defer e.m.Unlock()

	pe := ProcessExecution{
		Cmd:         cmd,
		PID:         pid,
		StartedAt:   time.Now(),
		ExitHandler: handler,
	}

	// For testing purposes make sure that stdout and stderr are always captured.
	if cmd.Stdout == nil {
		cmd.Stdout = new(bytes.Buffer)
	}
	if cmd.Stderr == nil {
		cmd.Stderr = new(bytes.Buffer)
	}
	if handler != nil {
		pe.startWaitingChan = make(chan struct{})
	}

	e.Executions = append(e.Executions, pe)

	startWaitingForExit := func() {
		e.m.Lock()
		defer e.m.Unlock()
		i := e.findByPid(pid)
		updatedPE := e.Executions[i]
		if !updatedPE.StartWaitingCalled {
			updatedPE.StartWaitingCalled = true
			if updatedPE.startWaitingChan != nil {
				close(updatedPE.startWaitingChan)
			}
		}
		e.Executions[i] = updatedPE
	}

	for _, ae := range e.AutoExecutions {
		if ae.matches(&pe) {
			if ae.StartupError != nil {
				return process.UnknownPID, func() {}, ae.StartupError
			}
			go func(ae AutoExecution) {
				exitCode := ae.RunCommand(&pe)
				stopProcessErr := e.stopProcessImpl(pid, exitCode)
				if stopProcessErr != nil {
					panic(fmt.Errorf("we should have an execution with PID=%d: %w", pid, stopProcessErr))
				}
			}(ae)
			break
		}
	}

	return pid, startWaitingForExit, nil
}

func (e *TestProcessExecutor) StopProcess(pid int32) error {
	return e.stopProcessImpl(pid, KilledProcessExitCode)
}

// Called by tests to simulate a process exit with specific exit code.
func (e *TestProcessExecutor) SimulateProcessExit(t *testing.T, pid int32, exitCode int32) {
	err := e.stopProcessImpl(pid, exitCode)
	if err != nil {
		require.Failf(t, "invalid PID (test issue)", err.Error())
	}
}

func (e *TestProcessExecutor) InstallAutoExecution(autoExecution AutoExecution) {
	e.m.Lock()
	defer e.m.Unlock()

	e.AutoExecutions = append(e.AutoExecutions, autoExecution)
}

// Snapshot returns a copy of all executions recorded so far.
func (e *TestProcessExecutor) Snapshot() []ProcessExecution {
	e.m.RLock()
	defer e.m.RUnlock()

	return append([]ProcessExecution{}, e.Executions...)
}

func (e *TestProcessExecutor) FindByPid(pid int32) (ProcessExecution, bool) {
	e.m.RLock()
	defer e.m.RUnlock()

	i := e.findByPid(pid)
	if i == NotFound {
		return ProcessExecution{}, false
	}
	return e.Executions[i], true
}

func (e *TestProcessExecutor) findByPid(pid int32) int {
	for i, pe := range e.Executions {
		if pe.PID == pid {
			return i
		}
	}

	return NotFound
}

func (e *TestProcessExecutor) stopProcessImpl(pid int32, exitCode int32) error {
	e.m.Lock()
	defer e.m.Unlock()

	i := e.findByPid(pid)
	if i == NotFound {
		return fmt.Errorf("no process with PID %d found", pid)
	}
	pe := e.Executions[i]
	pe.ExitCode = exitCode
	pe.EndedAt = time.Now()
	e.Executions[i] = pe
	if pe.ExitHandler != nil {
		go func() {
			select {
			case <-e.lifetimeCtx.Done():
				return
			case <-pe.startWaitingChan:
				pe.ExitHandler.OnProcessExited(pid, exitCode, nil)
			}
		}()
	}
	return nil
}

var _ process.Executor = (*TestProcessExecutor)(nil)
