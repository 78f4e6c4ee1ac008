package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MetricsSource produces the raw `top pods` table for a mode. The first line
// of the returned text is a header.
type MetricsSource interface {
	TopPods(ctx context.Context, mode Mode) (string, error)
}

// ErrEmptyOutput is returned when the metrics command succeeds without
// printing anything.
var ErrEmptyOutput = errors.New("metrics command produced no output")

// CommandExecutionError reports a metrics command that exited non-zero or
// could not be started (ExitCode -1).
type CommandExecutionError struct {
	Command  []string
	ExitCode int
	Stderr   string
}

func (e *CommandExecutionError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no stderr output"
	}
	return fmt.Sprintf("command %q exited with status %d: %s", strings.Join(e.Command, " "), e.ExitCode, msg)
}
