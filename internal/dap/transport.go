// Copyright (c) Microsoft Corporation. All rights reserved.

// Package dap hands resolved debug configurations to a Debug Adapter
// Protocol debugger backend.
package dap

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/google/go-dap"
)

// Transport provides DAP message I/O over a connection to the debugger backend.
// Reads and writes may happen on different goroutines, but individual reads
// and writes must not be concurrent with each other.
type Transport interface {
	ReadMessage() (dap.Message, error)
	WriteMessage(msg dap.Message) error
	Close() error
}

type streamTransport struct {
	reader *bufio.Reader
	writer *bufio.Writer
	closer func() error

	writeMu sync.Mutex

	closed bool
	mu     sync.Mutex
}

// NewStreamTransport creates a Transport over a pair of byte streams,
// typically the stdin/stdout pipes of a debug adapter child process.
func NewStreamTransport(in io.Reader, out io.Writer, closer func() error) Transport {
	if closer == nil {
		closer = func() error { return nil }
	}
	return &streamTransport{
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		closer: closer,
	}
}

// DialTCP connects to a debug adapter listening on a TCP address.
func DialTCP(ctx context.Context, address string) (Transport, error) {
	var d net.Dialer
	conn, dialErr := d.DialContext(ctx, "tcp", address)
	if dialErr != nil {
		return nil, fmt.Errorf("failed to dial TCP %s: %w", address, dialErr)
	}

	return NewStreamTransport(conn, conn, conn.Close), nil
}

func (t *streamTransport) ReadMessage() (dap.Message, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	msg, readErr := dap.ReadProtocolMessage(t.reader)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read DAP message: %w", readErr)
	}

	return msg, nil
}

func (t *streamTransport) WriteMessage(msg dap.Message) error {
	if err := t.checkOpen(); err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if writeErr := dap.WriteProtocolMessage(t.writer, msg); writeErr != nil {
		return fmt.Errorf("failed to write DAP message: %w", writeErr)
	}

	if flushErr := t.writer.Flush(); flushErr != nil {
		return fmt.Errorf("failed to flush DAP message: %w", flushErr)
	}

	return nil
}

func (t *streamTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	return t.closer()
}

func (t *streamTransport) checkOpen() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}
	return nil
}
