package screech

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/mako10k/fzscreech/internal/naming"
	"github.com/mako10k/fzscreech/internal/options"
	"github.com/mako10k/fzscreech/internal/proc"
)

const (
	// DefaultTool is the screech binary looked up on PATH
	DefaultTool = "screech"

	dumpOptionsArg = "dump_options"
)

// Job is one screech invocation for a single input file
type Job struct {
	Input  string
	Output string
	Option string
	Args   []string
}

// NewJob derives the output name for input and binds it to the selection
func NewJob(input, option string, args []string) Job {
	return Job{
		Input:  input,
		Output: naming.OutputName(input, option, args),
		Option: option,
		Args:   args,
	}
}

// Client talks to the screech binary
type Client struct {
	tool   string
	runner proc.Runner
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// Config configures a Client
type Config struct {
	Tool   string
	Runner proc.Runner
	// Stdout and Stderr receive the tool's output during Process
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// NewClient creates a screech client
func NewClient(config Config) *Client {
	if config.Tool == "" {
		config.Tool = DefaultTool
	}
	if config.Runner == nil {
		config.Runner = proc.NewExecRunner()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Client{
		tool:   config.Tool,
		runner: config.Runner,
		stdout: config.Stdout,
		stderr: config.Stderr,
		logger: config.Logger,
	}
}

// Tool returns the binary name this client invokes
func (c *Client) Tool() string {
	return c.tool
}

// DumpOptions asks screech for its option list and parses it
func (c *Client) DumpOptions(ctx context.Context) (*options.Set, error) {
	var out bytes.Buffer
	cmd := proc.Command{Name: c.tool, Args: []string{dumpOptionsArg}, Stdout: &out}

	c.logger.Debug("discovering options", "command", cmd.String())
	if err := c.runner.Run(ctx, cmd); err != nil {
		return nil, errors.Wrap(err, "failed to dump options")
	}
	if !utf8.Valid(out.Bytes()) {
		return nil, errors.Wrap(&proc.ToolError{
			Name:     c.tool,
			Args:     cmd.Args,
			ExitCode: 0,
			Err:      errors.New("output is not valid UTF-8"),
		}, "failed to dump options")
	}

	set := options.Parse(out.String())
	c.logger.Debug("options discovered", "count", set.Len())
	return set, nil
}

// Command builds the argument vector for job. Argument values are split on
// whitespace the same way an unquoted shell expansion would split them.
func (c *Client) Command(job Job) proc.Command {
	args := make([]string, 0, len(job.Args)+3)
	args = append(args, job.Input, job.Option)
	args = append(args, strings.Fields(strings.Join(job.Args, " "))...)
	args = append(args, job.Output)
	return proc.Command{
		Name:   c.tool,
		Args:   args,
		Stdout: c.stdout,
		Stderr: c.stderr,
	}
}

// Process runs screech for a single job
func (c *Client) Process(ctx context.Context, job Job) error {
	cmd := c.Command(job)
	c.logger.Debug("invoking", "command", cmd.String())
	if err := c.runner.Run(ctx, cmd); err != nil {
		return errors.Wrapf(err, "failed to process %s", job.Input)
	}
	return nil
}
