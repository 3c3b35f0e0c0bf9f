package host

import (
	"github.com/go-logr/logr"
)

// LogOutputChannel routes output channel writes into the structured log.
// Useful when no interactive host surface is available.
type LogOutputChannel struct {
	log logr.Logger
}

func NewLogOutputChannel(log logr.Logger) *LogOutputChannel {
	return &LogOutputChannel{log: log}
}

func (c *LogOutputChannel) AppendLine(line string) {
	c.log.Info(line)
}

func (c *LogOutputChannel) Show() {}

var _ OutputChannel = (*LogOutputChannel)(nil)
