// Copyright (c) Microsoft Corporation. All rights reserved.

package debug

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/microsoft/devhost/internal/host"
	"github.com/microsoft/devhost/internal/processes"
	"github.com/microsoft/devhost/pkg/process"
	"github.com/microsoft/devhost/pkg/slices"
)

// ProcessPicker selects an attach target interactively.
// A nil item with a nil error means the user dismissed the picker.
type ProcessPicker interface {
	PickProcess(ctx context.Context) (*processes.AttachItem, error)
}

// PickerFactory supplies the picker variant matching the configuration:
// a local picker normally, a remote picker when a pipe transport is configured.
type PickerFactory interface {
	LocalPicker() ProcessPicker
	RemotePicker(transport *PipeTransport) ProcessPicker
}

type pickerFactory struct {
	quickPick host.QuickPick
	executor  process.Executor
	log       logr.Logger
}

func NewPickerFactory(quickPick host.QuickPick, executor process.Executor, log logr.Logger) PickerFactory {
	return &pickerFactory{
		quickPick: quickPick,
		executor:  executor,
		log:       log,
	}
}

func (f *pickerFactory) LocalPicker() ProcessPicker {
	return &localPicker{quickPick: f.quickPick, log: f.log.WithName("local-picker")}
}

func (f *pickerFactory) RemotePicker(transport *PipeTransport) ProcessPicker {
	return &remotePicker{
		transport: transport,
		executor:  f.executor,
		quickPick: f.quickPick,
		log:       f.log.WithName("remote-picker"),
	}
}

type localPicker struct {
	quickPick host.QuickPick
	log       logr.Logger
}

func (p *localPicker) PickProcess(ctx context.Context) (*processes.AttachItem, error) {
	items, err := processes.List(ctx)
	if err != nil {
		return nil, err
	}

	return pickFrom(ctx, p.quickPick, items)
}

// The command used to enumerate processes on the remote machine.
// Works on any POSIX remote; Windows remotes are not supported by pipe transports.
const remotePsCommand = "ps axww -o pid=,comm="

const remoteListTimeout = 30 * time.Second

type remotePicker struct {
	transport *PipeTransport
	executor  process.Executor
	quickPick host.QuickPick
	log       logr.Logger
}

func (p *remotePicker) PickProcess(ctx context.Context) (*processes.AttachItem, error) {
	items, err := p.listRemote(ctx)
	if err != nil {
		return nil, err
	}

	return pickFrom(ctx, p.quickPick, items)
}

func (p *remotePicker) listRemote(ctx context.Context) ([]processes.AttachItem, error) {
	if p.transport.PipeProgram == "" {
		return nil, fmt.Errorf("pipeTransport does not specify a pipeProgram")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, remoteListTimeout)
	defer cancel()

	args := append(append([]string{}, p.transport.PipeArgs...), remotePsCommand)
	cmd := exec.CommandContext(timeoutCtx, p.transport.PipeProgram, args...)
	cmd.Dir = p.transport.PipeCwd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode, runErr := process.RunWithTimeout(timeoutCtx, p.executor, cmd)
	if runErr != nil {
		return nil, fmt.Errorf("could not enumerate processes via pipe transport '%s': %w", p.transport.PipeProgram, runErr)
	}
	if exitCode != 0 {
		p.log.Info("remote process enumeration failed", "exitCode", exitCode, "stderr", stderr.String())
		return nil, fmt.Errorf("remote process enumeration via '%s' exited with code %d", p.transport.PipeProgram, exitCode)
	}

	return parseRemotePsOutput(stdout.String()), nil
}

// Parses `ps -o pid=,comm=` output into attach items.
func parseRemotePsOutput(output string) []processes.AttachItem {
	var items []processes.AttachItem

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		pid, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			continue
		}

		name := strings.Join(fields[1:], " ")
		items = append(items, processes.AttachItem{
			Pid:         int32(pid),
			Name:        name,
			CommandLine: name,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		ni, nj := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if ni != nj {
			return ni < nj
		}
		return items[i].Pid < items[j].Pid
	})

	return items
}

func pickFrom(ctx context.Context, quickPick host.QuickPick, items []processes.AttachItem) (*processes.AttachItem, error) {
	pickItems := slices.Map(items, func(item processes.AttachItem) host.PickItem {
		return host.PickItem{
			Label:       item.Label(),
			Description: item.Detail(),
		}
	})

	choice, err := quickPick.Pick(ctx, "Select the process to attach to", pickItems)
	if err != nil {
		return nil, err
	}
	if choice < 0 || choice >= len(items) {
		return nil, nil
	}

	return &items[choice], nil
}
