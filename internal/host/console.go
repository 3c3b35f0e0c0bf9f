package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/microsoft/devhost/pkg/osutil"
)

// ConsoleHost implements the host surfaces on a terminal.
// It backs the CLI commands; an editor host would supply its own implementation.
type ConsoleHost struct {
	in  *bufio.Reader
	out io.Writer
	log logr.Logger
}

func NewConsoleHost(in io.Reader, out io.Writer, log logr.Logger) *ConsoleHost {
	return &ConsoleHost{
		in:  bufio.NewReader(in),
		out: out,
		log: log.WithName("console-host"),
	}
}

func (c *ConsoleHost) ShowInformationMessage(ctx context.Context, message string, actions ...string) (string, error) {
	return c.showMessage(ctx, "info", message, actions)
}

func (c *ConsoleHost) ShowWarningMessage(ctx context.Context, message string, actions ...string) (string, error) {
	return c.showMessage(ctx, "warning", message, actions)
}

func (c *ConsoleHost) ShowErrorMessage(ctx context.Context, message string, modal bool, actions ...string) (string, error) {
	return c.showMessage(ctx, "error", message, actions)
}

func (c *ConsoleHost) showMessage(ctx context.Context, severity string, message string, actions []string) (string, error) {
	fmt.Fprintf(c.out, "[%s] %s\n", severity, message)
	if len(actions) == 0 {
		return "", nil
	}

	for i, action := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, action)
	}
	fmt.Fprint(c.out, "Select an option (empty to dismiss): ")

	choice, err := c.readChoice(ctx, len(actions))
	if err != nil || choice < 0 {
		return "", err
	}
	return actions[choice], nil
}

func (c *ConsoleHost) Pick(ctx context.Context, placeholder string, items []PickItem) (int, error) {
	fmt.Fprintln(c.out, placeholder)
	for i, item := range items {
		if item.Description != "" {
			fmt.Fprintf(c.out, "  %d) %s  (%s)\n", i+1, item.Label, item.Description)
		} else {
			fmt.Fprintf(c.out, "  %d) %s\n", i+1, item.Label)
		}
	}
	fmt.Fprint(c.out, "Select an item (empty to dismiss): ")

	return c.readChoice(ctx, len(items))
}

func (c *ConsoleHost) AppendLine(line string) {
	_, _ = c.out.Write(append([]byte(line), osutil.LineSep()...))
}

func (c *ConsoleHost) Show() {
	// The terminal is always visible.
}

// Reads a 1-based selection from the terminal. Returns -1 if the user entered nothing.
func (c *ConsoleHost) readChoice(ctx context.Context, max int) (int, error) {
	type lineOrError struct {
		line string
		err  error
	}

	lineCh := make(chan lineOrError, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		lineCh <- lineOrError{line, err}
	}()

	select {
	case <-ctx.Done():
		return -1, ctx.Err()
	case le := <-lineCh:
		if le.err != nil && strings.TrimSpace(le.line) == "" {
			return -1, nil
		}

		trimmed := strings.TrimSpace(le.line)
		if trimmed == "" {
			return -1, nil
		}

		choice, parseErr := strconv.Atoi(trimmed)
		if parseErr != nil || choice < 1 || choice > max {
			return -1, fmt.Errorf("invalid selection '%s'", trimmed)
		}
		return choice - 1, nil
	}
}

var _ MessageService = (*ConsoleHost)(nil)
var _ OutputChannel = (*ConsoleHost)(nil)
var _ QuickPick = (*ConsoleHost)(nil)
