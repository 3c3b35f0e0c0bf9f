package debug

import (
	"context"
	"os/exec"
	"sync"

	"github.com/microsoft/devhost/internal/host"
	"github.com/microsoft/devhost/internal/processes"
	"github.com/microsoft/devhost/pkg/process"
)

type shownMessage struct {
	severity string
	message  string
	modal    bool
	actions  []string
}

// fakeMessages records dialogs and answers them from a script.
type fakeMessages struct {
	mu        sync.Mutex
	shown     []shownMessage
	responses []string
}

func (f *fakeMessages) ShowInformationMessage(ctx context.Context, message string, actions ...string) (string, error) {
	return f.record("info", message, false, actions)
}

func (f *fakeMessages) ShowWarningMessage(ctx context.Context, message string, actions ...string) (string, error) {
	return f.record("warning", message, false, actions)
}

func (f *fakeMessages) ShowErrorMessage(ctx context.Context, message string, modal bool, actions ...string) (string, error) {
	return f.record("error", message, modal, actions)
}

func (f *fakeMessages) record(severity string, message string, modal bool, actions []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shown = append(f.shown, shownMessage{severity, message, modal, actions})
	if len(f.responses) == 0 {
		return "", nil
	}
	response := f.responses[0]
	f.responses = f.responses[1:]
	return response, nil
}

func (f *fakeMessages) messages() []shownMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shownMessage{}, f.shown...)
}

// fakeOutput is an output channel that captures appended lines.
type fakeOutput struct {
	mu    sync.Mutex
	lines []string
	shown bool
}

func (f *fakeOutput) AppendLine(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, line)
}

func (f *fakeOutput) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shown = true
}

// fakePicker returns a scripted attach item (nil simulates user dismissal).
type fakePicker struct {
	item   *processes.AttachItem
	err    error
	called bool
}

func (f *fakePicker) PickProcess(ctx context.Context) (*processes.AttachItem, error) {
	f.called = true
	return f.item, f.err
}

type fakePickerFactory struct {
	local        *fakePicker
	remote       *fakePicker
	remoteUsedBy *PipeTransport
}

func (f *fakePickerFactory) LocalPicker() ProcessPicker {
	return f.local
}

func (f *fakePickerFactory) RemotePicker(transport *PipeTransport) ProcessPicker {
	f.remoteUsedBy = transport
	return f.remote
}

// fakeExecutor simulates child process runs with scripted exit codes and output.
type fakeExecutor struct {
	mu       sync.Mutex
	commands []*exec.Cmd

	// exitCodes are consumed one per started command; the last one repeats.
	exitCodes []int32
	stdout    string
	startErr  error
}

func (e *fakeExecutor) StartProcess(ctx context.Context, cmd *exec.Cmd, handler process.ProcessExitHandler) (int32, func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.startErr != nil {
		return process.UnknownPID, nil, e.startErr
	}

	e.commands = append(e.commands, cmd)

	exitCode := int32(0)
	if len(e.exitCodes) > 0 {
		exitCode = e.exitCodes[0]
		if len(e.exitCodes) > 1 {
			e.exitCodes = e.exitCodes[1:]
		}
	}

	if e.stdout != "" && cmd.Stdout != nil {
		_, _ = cmd.Stdout.Write([]byte(e.stdout))
	}

	pid := int32(4242)
	return pid, func() {
		handler.OnProcessExited(pid, exitCode, nil)
	}, nil
}

func (e *fakeExecutor) StopProcess(pid int32) error {
	return nil
}

func (e *fakeExecutor) startedCommands() []*exec.Cmd {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*exec.Cmd{}, e.commands...)
}

var _ host.MessageService = (*fakeMessages)(nil)
var _ host.OutputChannel = (*fakeOutput)(nil)
var _ PickerFactory = (*fakePickerFactory)(nil)
var _ process.Executor = (*fakeExecutor)(nil)
