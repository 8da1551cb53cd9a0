package picker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mako10k/fzscreech/internal/proc"
	"github.com/mako10k/fzscreech/internal/prompt"
)

// DefaultCommand is the fuzzy finder used when none is configured
const DefaultCommand = "fzf"

// fzf exit statuses that mean nothing was chosen
const (
	exitNoMatch     = 1
	exitInterrupted = 130
)

// ErrSelectionAborted is returned when the user leaves the picker without a choice
var ErrSelectionAborted = errors.New("no option selected")

// Picker lets the user choose one of candidates
type Picker interface {
	Pick(ctx context.Context, candidates []string) (string, error)
}

// FuzzyPicker pipes candidates through an external fuzzy finder
type FuzzyPicker struct {
	command string
	args    []string
	runner  proc.Runner
	stderr  io.Writer
}

// NewFuzzyPicker creates a picker that runs command with args
func NewFuzzyPicker(runner proc.Runner, command string, args []string, stderr io.Writer) *FuzzyPicker {
	if command == "" {
		command = DefaultCommand
	}
	return &FuzzyPicker{command: command, args: args, runner: runner, stderr: stderr}
}

// Pick writes the newline-joined candidates to the finder and returns the
// trimmed line it prints
func (p *FuzzyPicker) Pick(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", errors.Wrap(ErrSelectionAborted, "nothing to choose from")
	}

	var out bytes.Buffer
	err := p.runner.Run(ctx, proc.Command{
		Name:   p.command,
		Args:   p.args,
		Stdin:  strings.NewReader(strings.Join(candidates, "\n")),
		Stdout: &out,
		Stderr: p.stderr,
	})
	selection := strings.TrimSpace(out.String())
	if err != nil {
		if code, ok := proc.ExitCode(err); ok && (code == exitNoMatch || code == exitInterrupted) && selection == "" {
			return "", ErrSelectionAborted
		}
		return "", errors.Wrap(err, "picker failed")
	}
	if selection == "" {
		return "", ErrSelectionAborted
	}
	return selection, nil
}

// MenuPicker lists the candidates and reads a name or number from a
// LineReader. It stands in when no fuzzy finder is installed.
type MenuPicker struct {
	open func(completions []string) (prompt.LineReader, error)
	out  io.Writer
}

// NewMenuPicker creates a menu picker. open is called once per Pick with the
// candidate names so the reader can offer them as completions.
func NewMenuPicker(open func(completions []string) (prompt.LineReader, error), out io.Writer) *MenuPicker {
	return &MenuPicker{open: open, out: out}
}

// Pick prints a numbered list and returns the entered name. A number picks
// the matching entry; anything else is returned as typed.
func (m *MenuPicker) Pick(_ context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", errors.Wrap(ErrSelectionAborted, "nothing to choose from")
	}

	for i, c := range candidates {
		fmt.Fprintf(m.out, "%3d) %s\n", i+1, c)
	}

	r, err := m.open(candidates)
	if err != nil {
		return "", errors.Wrap(err, "failed to open menu input")
	}
	defer r.Close()

	line, err := r.ReadLine("option> ")
	if err != nil {
		if err == io.EOF || errors.Is(err, prompt.ErrInterrupted) {
			return "", ErrSelectionAborted
		}
		return "", errors.Wrap(err, "failed to read selection")
	}

	selection := strings.TrimSpace(line)
	if selection == "" {
		return "", ErrSelectionAborted
	}
	if n, err := strconv.Atoi(selection); err == nil && n >= 1 && n <= len(candidates) {
		return candidates[n-1], nil
	}
	return selection, nil
}

// New returns the fuzzy picker when command resolves on PATH and the menu
// picker otherwise
func New(runner proc.Runner, command string, args []string, menu *MenuPicker, stderr io.Writer, logger *slog.Logger) Picker {
	if command == "" {
		command = DefaultCommand
	}
	if _, err := runner.LookPath(command); err != nil && menu != nil {
		logger.Debug("fuzzy finder not found, using menu", "command", command, "error", err)
		return menu
	}
	return NewFuzzyPicker(runner, command, args, stderr)
}
