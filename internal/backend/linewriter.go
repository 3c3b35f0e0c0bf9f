// Copyright (c) Microsoft Corporation. All rights reserved.

package backend

import (
	"bytes"
	"sync"

	"github.com/go-logr/logr"
)

// logLineWriter forwards process output to the log, one line per entry.
// A trailing partial line is buffered until its newline arrives.
type logLineWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	log    logr.Logger
	stream string
}

func newLogLineWriter(log logr.Logger, stream string) *logLineWriter {
	return &logLineWriter{log: log, stream: stream}
}

func (w *logLineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)

	for {
		data := w.buf.Bytes()
		newlineIndex := bytes.IndexByte(data, '\n')
		if newlineIndex < 0 {
			break
		}

		line := string(bytes.TrimRight(data[:newlineIndex], "\r"))
		w.buf.Next(newlineIndex + 1)

		if line != "" {
			w.log.Info(line, "stream", w.stream)
		}
	}

	return len(p), nil
}
