package cli

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds the resolved configuration for one run
type Config struct {
	ConfigFile string   // -c: configuration file path
	Tool       string   // --tool: screech binary
	Picker     string   // --picker: fuzzy finder binary
	PickerArgs []string // --picker-arg: extra finder arguments
	Option     string   // -o: preselected option
	Args       []string // -a: preset parameter values
	Jobs       int      // -j: concurrent screech processes
	OnFailure  string   // --on-failure: report|continue|abort
	DryRun     bool     // -n: print commands only
	List       bool     // --list: print options and exit
	Verbose    bool     // -v: debug logging
	ShowStats  bool     // -s: run statistics

	// Positional arguments
	Inputs []string
}

// RunFunc executes a run with the resolved configuration
type RunFunc func(ctx context.Context, config *Config) error

// NewRootCommand builds the command line. Flags take precedence over
// environment variables, which take precedence over the config file.
func NewRootCommand(name, version string, run RunFunc) *cobra.Command {
	var flags Config

	cmd := &cobra.Command{
		Use:   name + " [flags] [input.wav...]",
		Short: "Pick a screech option with fzf and apply it to WAV files",
		Long: name + ` asks screech for its available options, lets you choose one with
a fuzzy finder, prompts for the parameters it needs and runs screech once per
input file. Each output is written next to its input as
<name>_<option>(e)d[_<arg>...].wav, e.g. loop.wav + fade 3 -> loop_faded_3.wav.`,
		Example: `  # Pick an option interactively and apply it to two files
  ` + name + ` kick.wav snare.wav

  # Skip the picker and preset the parameter
  ` + name + ` -o softclip -a 0.7 *.wav

  # Show what would run
  ` + name + ` -n -o normalize take1.wav`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := resolveConfig(cmd, &flags, os.Getenv)
			if err != nil {
				return err
			}
			config.Inputs = args
			return run(cmd.Context(), config)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.ConfigFile, "config", "c", "", "configuration file path (default ~/"+DefaultConfigName+")")
	f.StringVar(&flags.Tool, "tool", "", "screech binary to run (default \"screech\")")
	f.StringVar(&flags.Picker, "picker", "", "fuzzy finder used to choose the option (default \"fzf\")")
	f.StringArrayVar(&flags.PickerArgs, "picker-arg", nil, "extra argument passed to the fuzzy finder (repeatable)")
	f.StringVarP(&flags.Option, "option", "o", "", "use this option instead of running the picker")
	f.StringArrayVarP(&flags.Args, "arg", "a", nil, "preset parameter value, in parameter order (repeatable)")
	f.IntVarP(&flags.Jobs, "jobs", "j", 1, "number of files processed at once")
	f.StringVar(&flags.OnFailure, "on-failure", "", "what a failed file does to the run: report, continue or abort (default \"report\")")
	f.BoolVarP(&flags.DryRun, "dry-run", "n", false, "print the screech commands instead of running them")
	f.BoolVar(&flags.List, "list", false, "print the options screech offers and exit")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose logging")
	f.BoolVarP(&flags.ShowStats, "stats", "s", false, "show statistics after the run")

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and the
// flags that were set explicitly
func resolveConfig(cmd *cobra.Command, flags *Config, getenv func(string) string) (*Config, error) {
	path, explicit := flags.ConfigFile, true
	if path == "" {
		path, explicit = DefaultConfigPath(), false
	}

	file, err := LoadConfigFile(path, explicit)
	if err != nil {
		return nil, errors.Wrap(err, "configuration error")
	}
	if err := LoadEnvironmentConfig(file, getenv); err != nil {
		return nil, errors.Wrap(err, "environment error")
	}

	config := &Config{
		ConfigFile: path,
		Tool:       file.Tool,
		Picker:     file.Picker,
		PickerArgs: file.PickerArgs,
		Jobs:       file.Jobs,
		OnFailure:  file.OnFailure,
		DryRun:     file.DryRun,
		Verbose:    file.Verbose,
		Option:     flags.Option,
		Args:       flags.Args,
		List:       flags.List,
		ShowStats:  flags.ShowStats,
	}

	changed := cmd.Flags().Changed
	if changed("tool") {
		config.Tool = flags.Tool
	}
	if changed("picker") {
		config.Picker = flags.Picker
	}
	if changed("picker-arg") {
		config.PickerArgs = flags.PickerArgs
	}
	if changed("jobs") {
		config.Jobs = flags.Jobs
	}
	if changed("on-failure") {
		config.OnFailure = flags.OnFailure
	}
	if changed("dry-run") {
		config.DryRun = flags.DryRun
	}
	if changed("verbose") {
		config.Verbose = flags.Verbose
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// validateConfig validates the resolved configuration
func validateConfig(config *Config) error {
	if config.Tool == "" {
		return errors.New("screech tool must not be empty")
	}
	if config.Jobs < 1 {
		return errors.Errorf("jobs must be at least 1, got %d", config.Jobs)
	}
	return nil
}
