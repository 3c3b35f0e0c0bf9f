// Copyright (c) Microsoft Corporation. All rights reserved.

// Package processes enumerates processes a debugger can attach to.
package processes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	ps "github.com/shirou/gopsutil/v4/process"

	"github.com/microsoft/devhost/pkg/process"
)

// The P_TRANSLATED flag bit on macOS: set when the process runs under Rosetta translation.
const TranslatedProcessFlag = 0x20000

// AttachItem describes a single process offered by the attach picker.
type AttachItem struct {
	Pid         int32
	Name        string
	CommandLine string

	// StartedAt is the process creation time, for display purposes.
	// Zero when unknown (for example for remote processes).
	StartedAt time.Time

	// Flags holds platform-specific process flags. Only populated on macOS,
	// where the translation bit drives target architecture inference.
	Flags uint32
}

// IsTranslated reports whether the process runs under binary translation (Rosetta).
func (item AttachItem) IsTranslated() bool {
	return item.Flags&TranslatedProcessFlag != 0
}

func (item AttachItem) Label() string {
	return fmt.Sprintf("%s (%d)", item.Name, item.Pid)
}

// Detail is the secondary picker line: the command line, plus the start time
// when it is known.
func (item AttachItem) Detail() string {
	if item.StartedAt.IsZero() {
		return item.CommandLine
	}
	return fmt.Sprintf("%s, started %s", item.CommandLine, item.StartedAt.Format(time.DateTime))
}

// List enumerates the processes on this machine, sorted by name.
// Processes that disappear mid-enumeration are skipped.
func List(ctx context.Context) ([]AttachItem, error) {
	procs, err := ps.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not enumerate processes: %w", err)
	}

	flags, flagsErr := processFlags(ctx)
	if flagsErr != nil {
		// Flags are only needed for architecture inference; fall back to none.
		flags = map[int32]uint32{}
	}

	items := make([]AttachItem, 0, len(procs))
	for _, proc := range procs {
		name, nameErr := proc.NameWithContext(ctx)
		if nameErr != nil || name == "" {
			continue
		}

		cmdline, _ := proc.CmdlineWithContext(ctx)
		if cmdline == "" {
			cmdline = name
		}

		items = append(items, AttachItem{
			Pid:         proc.Pid,
			Name:        name,
			CommandLine: cmdline,
			StartedAt:   process.StartTimeForProcess(proc.Pid),
			Flags:       flags[proc.Pid],
		})
	}

	sort.Slice(items, func(i, j int) bool {
		ni, nj := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if ni != nj {
			return ni < nj
		}
		return items[i].Pid < items[j].Pid
	})

	return items, nil
}
