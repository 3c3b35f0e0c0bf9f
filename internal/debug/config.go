// Copyright (c) Microsoft Corporation. All rights reserved.

// Package debug resolves raw debug launch/attach configurations into fully
// enriched ones the debugger backend can consume.
package debug

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/microsoft/devhost/pkg/pointers"
)

type RequestKind string

const (
	RequestLaunch RequestKind = "launch"
	RequestAttach RequestKind = "attach"
)

type ConsoleKind string

const (
	ConsoleInternal           ConsoleKind = "internalConsole"
	ConsoleIntegratedTerminal ConsoleKind = "integratedTerminal"
	ConsoleExternalTerminal   ConsoleKind = "externalTerminal"
)

// The console user setting only applies to configurations the host generates on the fly,
// so the fill-if-unset merge must never push it onto an explicit configuration.
const reservedConsoleKey = "console"

// PipeTransport describes a custom transport used to reach a remote debuggee.
type PipeTransport struct {
	PipeProgram  string   `json:"pipeProgram,omitempty"`
	PipeArgs     []string `json:"pipeArgs,omitempty"`
	PipeCwd      string   `json:"pipeCwd,omitempty"`
	DebuggerPath string   `json:"debuggerPath,omitempty"`
	QuoteArgs    *bool    `json:"quoteArgs,omitempty"`
}

// Configuration is a debug launch/attach request. Recognized keys are carried
// as typed fields; anything else rides along in Additional and is passed to
// the debugger backend untouched.
type Configuration struct {
	Name               string
	Type               string
	Request            RequestKind
	Program            string
	Args               []string
	Cwd                string
	Console            ConsoleKind
	Env                map[string]string
	EnvFile            string
	ProcessID          int32
	ProcessName        string
	PipeTransport      *PipeTransport
	CheckForDevCert    *bool
	TargetArchitecture string

	// Additional holds unrecognized passthrough keys.
	Additional map[string]any
}

// configurationJSON mirrors Configuration for (un)marshaling of recognized keys.
// processId is kept raw because launch.json allows both numbers and strings there.
type configurationJSON struct {
	Name               string            `json:"name,omitempty"`
	Type               string            `json:"type,omitempty"`
	Request            RequestKind       `json:"request,omitempty"`
	Program            string            `json:"program,omitempty"`
	Args               []string          `json:"args,omitempty"`
	Cwd                string            `json:"cwd,omitempty"`
	Console            ConsoleKind       `json:"console,omitempty"`
	Env                map[string]string `json:"env,omitempty"`
	EnvFile            string            `json:"envFile,omitempty"`
	ProcessID          json.RawMessage   `json:"processId,omitempty"`
	ProcessName        string            `json:"processName,omitempty"`
	PipeTransport      *PipeTransport    `json:"pipeTransport,omitempty"`
	CheckForDevCert    *bool             `json:"checkForDevCert,omitempty"`
	TargetArchitecture string            `json:"targetArchitecture,omitempty"`
}

var recognizedKeys = []string{
	"name", "type", "request", "program", "args", "cwd", "console", "env",
	"envFile", "processId", "processName", "pipeTransport", "checkForDevCert",
	"targetArchitecture",
}

func (c *Configuration) UnmarshalJSON(data []byte) error {
	var cj configurationJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}

	pid, err := parseProcessID(cj.ProcessID)
	if err != nil {
		return err
	}

	*c = Configuration{
		Name:               cj.Name,
		Type:               cj.Type,
		Request:            cj.Request,
		Program:            cj.Program,
		Args:               cj.Args,
		Cwd:                cj.Cwd,
		Console:            cj.Console,
		Env:                cj.Env,
		EnvFile:            cj.EnvFile,
		ProcessID:          pid,
		ProcessName:        cj.ProcessName,
		PipeTransport:      cj.PipeTransport,
		CheckForDevCert:    cj.CheckForDevCert,
		TargetArchitecture: cj.TargetArchitecture,
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range recognizedKeys {
		delete(all, key)
	}
	if len(all) > 0 {
		c.Additional = all
	}

	return nil
}

func (c Configuration) MarshalJSON() ([]byte, error) {
	all := make(map[string]any, len(c.Additional)+len(recognizedKeys))
	for k, v := range c.Additional {
		all[k] = v
	}

	setIfNotEmpty := func(key string, val string) {
		if val != "" {
			all[key] = val
		}
	}

	setIfNotEmpty("name", c.Name)
	setIfNotEmpty("type", c.Type)
	setIfNotEmpty("request", string(c.Request))
	setIfNotEmpty("program", c.Program)
	setIfNotEmpty("cwd", c.Cwd)
	setIfNotEmpty("console", string(c.Console))
	setIfNotEmpty("envFile", c.EnvFile)
	setIfNotEmpty("processName", c.ProcessName)
	setIfNotEmpty("targetArchitecture", c.TargetArchitecture)

	if len(c.Args) > 0 {
		all["args"] = c.Args
	}
	if len(c.Env) > 0 {
		all["env"] = c.Env
	}
	if c.ProcessID != 0 {
		all["processId"] = c.ProcessID
	}
	if c.PipeTransport != nil {
		all["pipeTransport"] = c.PipeTransport
	}
	if c.CheckForDevCert != nil {
		all["checkForDevCert"] = *c.CheckForDevCert
	}

	return json.Marshal(all)
}

// IsEmpty reports whether the configuration carries no information at all,
// which makes the resolver defer to the host's own configuration prompt.
func (c *Configuration) IsEmpty() bool {
	return c.Name == "" && c.Type == "" && c.Request == "" && c.Program == "" &&
		len(c.Args) == 0 && c.Cwd == "" && c.Console == "" && len(c.Env) == 0 &&
		c.EnvFile == "" && c.ProcessID == 0 && c.ProcessName == "" &&
		c.PipeTransport == nil && c.CheckForDevCert == nil &&
		c.TargetArchitecture == "" && len(c.Additional) == 0
}

// ApplyUserSettings merges user-level default settings into the configuration.
// Every setting is a fill-if-unset: explicit configuration values always win.
// The reserved console key is never merged.
func (c *Configuration) ApplyUserSettings(settings map[string]any) {
	for key, value := range settings {
		if key == reservedConsoleKey {
			continue
		}
		c.applyDefault(key, value)
	}
}

func (c *Configuration) applyDefault(key string, value any) {
	switch key {
	case "name":
		if c.Name == "" {
			c.Name, _ = value.(string)
		}
	case "type":
		if c.Type == "" {
			c.Type, _ = value.(string)
		}
	case "request":
		if c.Request == "" {
			if s, ok := value.(string); ok {
				c.Request = RequestKind(s)
			}
		}
	case "program":
		if c.Program == "" {
			c.Program, _ = value.(string)
		}
	case "args":
		if len(c.Args) == 0 {
			c.Args = toStringSlice(value)
		}
	case "cwd":
		if c.Cwd == "" {
			c.Cwd, _ = value.(string)
		}
	case "env":
		if len(c.Env) == 0 {
			c.Env = toStringMap(value)
		}
	case "envFile":
		if c.EnvFile == "" {
			c.EnvFile, _ = value.(string)
		}
	case "processId":
		if c.ProcessID == 0 {
			if pid, ok := toPid(value); ok {
				c.ProcessID = pid
			}
		}
	case "processName":
		if c.ProcessName == "" {
			c.ProcessName, _ = value.(string)
		}
	case "pipeTransport":
		if c.PipeTransport == nil {
			c.PipeTransport = toPipeTransport(value)
		}
	case "checkForDevCert":
		if c.CheckForDevCert == nil {
			if b, ok := value.(bool); ok {
				c.CheckForDevCert = pointers.To(b)
			}
		}
	case "targetArchitecture":
		if c.TargetArchitecture == "" {
			c.TargetArchitecture, _ = value.(string)
		}
	default:
		if c.Additional == nil {
			c.Additional = map[string]any{}
		}
		if _, exists := c.Additional[key]; !exists {
			c.Additional[key] = value
		}
	}
}

func parseProcessID(raw json.RawMessage) (int32, error) {
	if len(raw) == 0 {
		return 0, nil
	}

	var asNumber int32
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return 0, fmt.Errorf("processId must be a number or a numeric string, got %s", string(raw))
	}
	if asString == "" {
		return 0, nil
	}

	pid, parseErr := strconv.ParseInt(asString, 10, 32)
	if parseErr != nil {
		return 0, fmt.Errorf("processId '%s' is not a valid process ID: %w", asString, parseErr)
	}
	return int32(pid), nil
}

func toPid(value any) (int32, bool) {
	switch v := value.(type) {
	case float64:
		return int32(v), true
	case int:
		return int32(v), true
	case int32:
		return v, true
	case string:
		pid, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return 0, false
		}
		return int32(pid), true
	default:
		return 0, false
	}
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toStringMap(value any) map[string]string {
	switch v := value.(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, item := range v {
			if s, ok := item.(string); ok {
				out[key] = s
			}
		}
		return out
	default:
		return nil
	}
}

func toPipeTransport(value any) *PipeTransport {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}

	var pt PipeTransport
	if err := json.Unmarshal(data, &pt); err != nil {
		return nil
	}
	return &pt
}
