package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mako10k/fzscreech/internal/options"
	"github.com/mako10k/fzscreech/internal/picker"
	"github.com/mako10k/fzscreech/internal/proc"
	"github.com/mako10k/fzscreech/internal/prompt"
	"github.com/mako10k/fzscreech/internal/screech"
)

// ErrJobsFailed is returned under the report policy when any file failed
var ErrJobsFailed = errors.New("processing failed")

// ErrTooManyArgs is returned when more preset arguments are given than the
// selected option takes
var ErrTooManyArgs = errors.New("too many arguments")

// FailurePolicy decides what a failed screech invocation does to the run
type FailurePolicy string

const (
	// FailReport keeps going and returns ErrJobsFailed at the end
	FailReport FailurePolicy = "report"
	// FailContinue keeps going and ignores failures
	FailContinue FailurePolicy = "continue"
	// FailAbort stops at the first failure
	FailAbort FailurePolicy = "abort"
)

// ParseFailurePolicy validates a policy name
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case FailReport, FailContinue, FailAbort:
		return p, nil
	default:
		return "", errors.Errorf("invalid failure policy %q (want report, continue or abort)", s)
	}
}

// Tool is the subset of the screech client the invoker drives
type Tool interface {
	DumpOptions(ctx context.Context) (*options.Set, error)
	Command(job screech.Job) proc.Command
	Process(ctx context.Context, job screech.Job) error
}

// Config holds the per-run settings of the invoker
type Config struct {
	Inputs    []string // files to process, in command-line order
	Option    string   // preselected option; empty runs the picker
	Args      []string // preset parameter values
	Jobs      int
	OnFailure FailurePolicy
	DryRun    bool
	List      bool
	ShowStats bool
}

// Result is the outcome of one job
type Result struct {
	Job     screech.Job
	Err     error
	Skipped bool
}

// Report summarizes a run
type Report struct {
	Option   options.Option
	Args     []string
	Results  []Result
	Duration time.Duration
}

// Failed returns the jobs that ran and failed
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil && !res.Skipped {
			out = append(out, res)
		}
	}
	return out
}

// Skipped returns the jobs that never started
func (r *Report) Skipped() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Skipped {
			out = append(out, res)
		}
	}
	return out
}

// Invoker discovers screech options, asks the user for one and its
// parameters, then runs screech once per input file
type Invoker struct {
	config    Config
	tool      Tool
	picker    picker.Picker
	openInput func() (prompt.LineReader, error)
	out       io.Writer
	errOut    io.Writer
	logger    *slog.Logger
}

// Deps are the collaborators of an Invoker
type Deps struct {
	Tool   Tool
	Picker picker.Picker
	// OpenInput opens the reader used for parameter prompts. It is only
	// called when at least one parameter needs an answer.
	OpenInput func() (prompt.LineReader, error)
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
}

// New creates an invoker
func New(config Config, deps Deps) *Invoker {
	if config.Jobs < 1 {
		config.Jobs = 1
	}
	if config.OnFailure == "" {
		config.OnFailure = FailReport
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Invoker{
		config:    config,
		tool:      deps.Tool,
		picker:    deps.Picker,
		openInput: deps.OpenInput,
		out:       deps.Stdout,
		errOut:    deps.Stderr,
		logger:    deps.Logger,
	}
}

// Run executes discover, select, collect and the per-file jobs in sequence
func (inv *Invoker) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	set, err := inv.tool.DumpOptions(ctx)
	if err != nil {
		return nil, err
	}

	if inv.config.List {
		fmt.Fprint(inv.out, set.Usage())
		return &Report{Duration: time.Since(start)}, nil
	}

	opt, err := inv.selectOption(ctx, set)
	if err != nil {
		return nil, err
	}

	args, err := inv.collectArgs(opt)
	if err != nil {
		return nil, err
	}
	inv.logger.Debug("selection complete", "option", opt.Name, "args", args)

	report := &Report{Option: opt, Args: args}
	jobs := make([]screech.Job, len(inv.config.Inputs))
	for i, input := range inv.config.Inputs {
		jobs[i] = screech.NewJob(input, opt.Name, args)
	}

	runErr := inv.runJobs(ctx, jobs, report)
	report.Duration = time.Since(start)

	if inv.config.ShowStats {
		inv.showStatistics(report)
	}
	return report, runErr
}

func (inv *Invoker) selectOption(ctx context.Context, set *options.Set) (options.Option, error) {
	selection := inv.config.Option
	if selection == "" {
		if set.Len() == 0 {
			return options.Option{}, errors.Wrap(picker.ErrSelectionAborted, "screech reported no options")
		}
		var err error
		selection, err = inv.picker.Pick(ctx, set.Names())
		if err != nil {
			return options.Option{}, err
		}
	}
	return set.Lookup(selection)
}

func (inv *Invoker) collectArgs(opt options.Option) ([]string, error) {
	if len(inv.config.Args) > len(opt.Params) {
		return nil, errors.Wrapf(ErrTooManyArgs, "%s takes %d, got %d", opt.Name, len(opt.Params), len(inv.config.Args))
	}
	if len(opt.Params) == len(inv.config.Args) {
		return prompt.Collect(nil, opt.Params, inv.config.Args)
	}
	if inv.openInput == nil {
		return nil, errors.Wrap(prompt.ErrPromptAborted, "no input available for parameters")
	}
	r, err := inv.openInput()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open parameter input")
	}
	defer r.Close()
	return prompt.Collect(r, opt.Params, inv.config.Args)
}

// runJobs runs up to config.Jobs invocations at a time. Results keep the
// order of the inputs.
func (inv *Invoker) runJobs(ctx context.Context, jobs []screech.Job, report *Report) error {
	report.Results = make([]Result, len(jobs))
	for i, job := range jobs {
		report.Results[i] = Result{Job: job, Skipped: true}
	}

	if inv.config.DryRun {
		for i, job := range jobs {
			if err := ctx.Err(); err != nil {
				report.Results[i].Err = err
				continue
			}
			report.Results[i].Skipped = false
			fmt.Fprintln(inv.out, inv.tool.Command(job).String())
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "interrupted")
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(inv.config.Jobs)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report.Results[i].Err = err
				return nil
			}
			report.Results[i].Skipped = false

			began := time.Now()
			err := inv.tool.Process(gctx, job)
			report.Results[i].Err = err
			if err != nil {
				if inv.config.OnFailure == FailAbort {
					return err
				}
				inv.logger.Debug("job failed", "input", job.Input, "error", err)
				return nil
			}
			inv.logger.Debug("job done", "input", job.Input, "output", job.Output, "elapsed", time.Since(began))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "aborted")
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "interrupted")
	}

	failed := report.Failed()
	if len(failed) == 0 || inv.config.OnFailure == FailContinue {
		return nil
	}
	for _, res := range failed {
		inv.logger.Error("file failed", "input", res.Job.Input, "error", res.Err)
	}
	return errors.Wrapf(ErrJobsFailed, "%d of %d files", len(failed), len(jobs))
}

// showStatistics prints a summary of the run to stderr
func (inv *Invoker) showStatistics(report *Report) {
	var written int64
	for _, res := range report.Results {
		if res.Err != nil || res.Skipped {
			continue
		}
		if info, err := os.Stat(res.Job.Output); err == nil {
			written += info.Size()
		}
	}

	w := inv.errOut
	fmt.Fprintf(w, "\n=== FZSCREECH STATISTICS ===\n")
	fmt.Fprintf(w, "   Option:             %s\n", report.Option.Name)
	fmt.Fprintf(w, "   Arguments:          %v\n", report.Args)
	fmt.Fprintf(w, "   Files:              %d\n", len(report.Results))
	fmt.Fprintf(w, "   Failed:             %d\n", len(report.Failed()))
	fmt.Fprintf(w, "   Skipped:            %d\n", len(report.Skipped()))
	fmt.Fprintf(w, "   Output Written:     %s\n", formatBytes(written))
	fmt.Fprintf(w, "   Total Duration:     %v\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "=== END STATISTICS ===\n")
}

// formatBytes formats byte counts in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
