package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

var (
	// ErrPromptAborted is returned when input ends before every parameter was answered
	ErrPromptAborted = errors.New("parameter input aborted")

	// ErrInterrupted is returned by a LineReader when the user presses Ctrl-C
	ErrInterrupted = errors.New("interrupted")
)

// LineReader reads one line of user input after showing a prompt.
// It returns io.EOF when input is exhausted and ErrInterrupted on Ctrl-C.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// Options configures a LineReader
type Options struct {
	Stdin  *os.File
	Stdout io.Writer
	// Completions are offered as prefix tab-completions on a terminal
	Completions []string
}

// Open returns a readline-backed reader when stdin is a terminal and a plain
// line scanner otherwise
func Open(opts Options) (LineReader, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if readline.IsTerminal(int(opts.Stdin.Fd())) {
		return NewTerminalReader(opts)
	}
	return NewScanReader(opts.Stdin, opts.Stdout), nil
}

// TerminalReader reads lines with readline editing
type TerminalReader struct {
	rl *readline.Instance
}

// NewTerminalReader creates a readline-backed reader
func NewTerminalReader(opts Options) (*TerminalReader, error) {
	config := &readline.Config{
		HistoryLimit:    -1,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
		Stdout:          opts.Stdout,
	}
	if opts.Stdin != nil {
		config.Stdin = opts.Stdin
	}
	if len(opts.Completions) > 0 {
		items := make([]readline.PrefixCompleterInterface, len(opts.Completions))
		for i, c := range opts.Completions {
			items[i] = readline.PcItem(c)
		}
		config.AutoComplete = readline.NewPrefixCompleter(items...)
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create readline")
	}
	return &TerminalReader{rl: rl}, nil
}

// ReadLine shows prompt and returns the edited line
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", ErrInterrupted
		}
		return "", err
	}
	return line, nil
}

// Close releases the terminal
func (r *TerminalReader) Close() error {
	return r.rl.Close()
}

// ScanReader reads newline-terminated answers from a non-interactive input
type ScanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScanReader creates a reader over in that echoes prompts to out
func NewScanReader(in io.Reader, out io.Writer) *ScanReader {
	return &ScanReader{scanner: bufio.NewScanner(in), out: out}
}

// ReadLine writes prompt and returns the next line without its terminator
func (r *ScanReader) ReadLine(prompt string) (string, error) {
	if r.out != nil {
		fmt.Fprint(r.out, prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSuffix(r.scanner.Text(), "\r"), nil
}

// Close is a no-op; the underlying reader belongs to the caller
func (r *ScanReader) Close() error {
	return nil
}

// Label formats a parameter label as the prompt shown to the user
func Label(label string) string {
	return label + " "
}

// Collect gathers one value per label, in order. Values already present in
// preset answer the leading labels; the rest are read from r. Values are not
// validated and may be empty.
func Collect(r LineReader, labels, preset []string) ([]string, error) {
	args := make([]string, 0, len(labels))
	for i, label := range labels {
		if i < len(preset) {
			args = append(args, preset[i])
			continue
		}
		value, err := r.ReadLine(Label(label))
		if err != nil {
			if err == io.EOF || errors.Is(err, ErrInterrupted) {
				return nil, errors.Wrapf(ErrPromptAborted, "reading %q", label)
			}
			return nil, errors.Wrapf(err, "failed to read %q", label)
		}
		args = append(args, value)
	}
	return args, nil
}
