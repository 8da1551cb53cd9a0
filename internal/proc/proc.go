package proc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Command describes one external process launch. Arguments are passed as a
// vector; no shell is involved.
type Command struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs and dry runs
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, Quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, Quote(a))
	}
	return strings.Join(parts, " ")
}

// Runner launches external processes and waits for them to exit
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	LookPath(name string) (string, error)
}

// ExecRunner runs commands through os/exec
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the command and blocks until it exits. Stderr is captured into
// the returned ToolError while still being forwarded to cmd.Stderr.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout

	var stderr bytes.Buffer
	if cmd.Stderr != nil {
		c.Stderr = io.MultiWriter(cmd.Stderr, &stderr)
	} else {
		c.Stderr = &stderr
	}

	if err := c.Run(); err != nil {
		toolErr := &ToolError{
			Name:     cmd.Name,
			Args:     cmd.Args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return toolErr
	}
	return nil
}

// LookPath resolves name on PATH
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ToolError reports an external tool that could not be started or that
// exited unsuccessfully
type ToolError struct {
	Name     string
	Args     []string
	ExitCode int // -1 when the process never ran to completion
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("external tool %s failed", e.Name)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s with exit status %d", msg, e.ExitCode)
	}
	var exitErr *exec.ExitError
	if e.Err != nil && !errors.As(e.Err, &exitErr) {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Cause lets github.com/pkg/errors walk through a ToolError
func (e *ToolError) Cause() error {
	return e.Err
}

// Started reports whether the process ran and exited on its own
func (e *ToolError) Started() bool {
	return e.ExitCode >= 0
}

// ExitCode extracts the exit status carried by err, if any
func ExitCode(err error) (int, bool) {
	var toolErr *ToolError
	if errors.As(err, &toolErr) && toolErr.Started() {
		return toolErr.ExitCode, true
	}
	return 0, false
}

// Quote wraps s in single quotes when it holds characters a POSIX shell
// would interpret. The result is for display only.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'`$\\|&;<>()*?[]{}~#!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
