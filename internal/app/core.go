package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/mako10k/fzscreech/internal/cli"
	"github.com/mako10k/fzscreech/internal/picker"
	"github.com/mako10k/fzscreech/internal/proc"
	"github.com/mako10k/fzscreech/internal/prompt"
	"github.com/mako10k/fzscreech/internal/screech"
)

// ApplicationMetadata contains application version information
type ApplicationMetadata struct {
	Name    string
	Version string
}

// Exit statuses returned by ExitCode
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitAborted = 130
)

// ExecuteExternal parses args and runs the invoker against the real
// screech, picker and terminal
func ExecuteExternal(ctx context.Context, metadata ApplicationMetadata, args []string) error {
	runner := proc.NewExecRunner()
	cmd := cli.NewRootCommand(metadata.Name, metadata.Version, func(ctx context.Context, config *cli.Config) error {
		return runWithConfig(ctx, config, runner, os.Stdout, os.Stderr)
	})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func runWithConfig(ctx context.Context, config *cli.Config, runner proc.Runner, stdout, stderr io.Writer) error {
	policy, err := ParseFailurePolicy(config.OnFailure)
	if err != nil {
		return err
	}

	logger := setupLogging(config, stderr)
	logger.Debug("configuration loaded",
		"config_file", config.ConfigFile,
		"tool", config.Tool,
		"picker", config.Picker,
		"inputs", len(config.Inputs),
		"jobs", config.Jobs,
		"on_failure", policy,
	)

	client := screech.NewClient(screech.Config{
		Tool:   config.Tool,
		Runner: runner,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	})

	menu := picker.NewMenuPicker(func(completions []string) (prompt.LineReader, error) {
		return prompt.Open(prompt.Options{Stdout: stderr, Completions: completions})
	}, stderr)

	inv := New(Config{
		Inputs:    config.Inputs,
		Option:    config.Option,
		Args:      config.Args,
		Jobs:      config.Jobs,
		OnFailure: policy,
		DryRun:    config.DryRun,
		List:      config.List,
		ShowStats: config.ShowStats,
	}, Deps{
		Tool:   client,
		Picker: picker.New(runner, config.Picker, config.PickerArgs, menu, stderr, logger),
		OpenInput: func() (prompt.LineReader, error) {
			return prompt.Open(prompt.Options{Stdout: stderr})
		},
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	})

	_, err = inv.Run(ctx)
	return err
}

// setupLogging configures logging based on config
func setupLogging(config *cli.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if config.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ExitCode maps a run error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, picker.ErrSelectionAborted), errors.Is(err, prompt.ErrPromptAborted):
		return ExitAborted
	default:
		return ExitFailure
	}
}
