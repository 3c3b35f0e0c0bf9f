// Copyright (c) Microsoft Corporation. All rights reserved.

package dap

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/google/go-dap"
	"github.com/google/uuid"

	"github.com/microsoft/devhost/internal/debug"
)

// Session wraps the transport to one debugger backend instance.
// Each session carries a unique id that is injected into the configuration
// handed to the backend.
type Session struct {
	ID        string
	transport Transport
	log       logr.Logger

	seqCounter atomic.Int64
}

func NewSession(transport Transport, log logr.Logger) *Session {
	return &Session{
		ID:        uuid.NewString(),
		transport: transport,
		log:       log,
	}
}

// SendConfiguration hands a resolved debug configuration to the debugger
// backend as a launch or attach request, matching the configuration's
// request kind.
func (s *Session) SendConfiguration(cfg *debug.Configuration) error {
	args, err := configurationArguments(cfg, s.ID)
	if err != nil {
		return err
	}

	request := dap.Request{
		ProtocolMessage: dap.ProtocolMessage{
			Seq:  int(s.seqCounter.Add(1)),
			Type: "request",
		},
		Command: string(cfg.Request),
	}

	var msg dap.Message
	switch cfg.Request {
	case debug.RequestLaunch:
		msg = &dap.LaunchRequest{Request: request, Arguments: args}
	case debug.RequestAttach:
		msg = &dap.AttachRequest{Request: request, Arguments: args}
	default:
		return fmt.Errorf("configuration '%s' has unsupported request kind '%s'", cfg.Name, cfg.Request)
	}

	s.log.V(1).Info("sending configuration to debugger backend", "command", request.Command, "sessionID", s.ID)
	return s.transport.WriteMessage(msg)
}

func (s *Session) Close() error {
	return s.transport.Close()
}

func configurationArguments(cfg *debug.Configuration, sessionID string) (json.RawMessage, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal debug configuration: %w", err)
	}

	var argsMap map[string]any
	if err := json.Unmarshal(raw, &argsMap); err != nil {
		return nil, fmt.Errorf("failed to shape debug configuration arguments: %w", err)
	}
	argsMap["__sessionId"] = sessionID

	args, err := json.Marshal(argsMap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal debug configuration arguments: %w", err)
	}

	return args, nil
}
