package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/betti-rdl/bettirdl/internal/config"
	"github.com/betti-rdl/bettirdl/internal/journal"
	"github.com/betti-rdl/bettirdl/internal/kernel"
	"github.com/betti-rdl/bettirdl/internal/scenario"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal string
	Config  string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario against a fresh kernel",
		Long: `Execute a scenario file against a freshly constructed kernel.

The scenario's steps run in order; expectations are checked after the last
step. With --journal, the run's command stream and event trace are recorded
to a SQLite database so it can later be inspected (trace) and re-verified
(replay).

Example:
  bettirdl run demo.yaml
  bettirdl run demo.yaml --journal runs.db --config grid.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal database (optional)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to CUE grid configuration (optional)")

	return cmd
}

// runResult is the run command's machine-readable output.
type runResult struct {
	Scenario        string   `json:"scenario"`
	RunID           string   `json:"run_id,omitempty"`
	Grid            string   `json:"grid"`
	EventsProcessed uint64   `json:"events_processed"`
	CurrentTime     uint64   `json:"current_time"`
	ProcessCount    uint64   `json:"process_count"`
	TraceHash       string   `json:"trace_hash"`
	Passed          bool     `json:"passed"`
	Failures        []string `json:"failures,omitempty"`
}

func runScenario(cmd *cobra.Command, opts *RunOptions, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	slog.Debug("scenario loaded", "name", s.Name, "steps", len(s.Steps))

	// A --config grid applies when the scenario doesn't pin its own.
	if opts.Config != "" && s.Grid == nil {
		grid, err := config.Load(opts.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load grid config", err)
		}
		s.Grid = &scenario.GridSpec{Width: grid.Width, Height: grid.Height, Depth: grid.Depth}
		slog.Debug("grid config applied", "width", grid.Width, "height", grid.Height, "depth", grid.Depth)
	}

	grid := kernel.Space{Width: kernel.DefaultWidth, Height: kernel.DefaultHeight, Depth: kernel.DefaultDepth}
	if s.Grid != nil {
		grid = kernel.Space{Width: s.Grid.Width, Height: s.Grid.Height, Depth: s.Grid.Depth}
	}

	var (
		writer *journal.RunWriter
		jnl    *journal.Journal
		runID  string
	)
	if opts.Journal != "" {
		jnl, err = journal.Open(opts.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := jnl.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()

		writer, err = jnl.BeginRun(ctx, s.Name, grid)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to begin journaled run", err)
		}
		runID = writer.RunID()
		slog.Info("journaling run", "run", runID, "db", opts.Journal)

		// The step list is the whole command stream; journal it up front.
		if err := recordSteps(ctx, writer, s.Steps); err != nil {
			return WrapExitError(ExitCommandError, "failed to journal scenario steps", err)
		}
	}

	var observers []kernel.Observer
	if writer != nil {
		observers = append(observers, writer)
	}

	result, err := scenario.Run(s, observers...)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	hash, err := result.Snapshot.Hash()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash trace", err)
	}

	if writer != nil {
		if err := writer.Finish(ctx, hash); err != nil {
			return WrapExitError(ExitCommandError, "failed to finish journaled run", err)
		}
	}

	out := runResult{
		Scenario:        s.Name,
		RunID:           runID,
		Grid:            fmt.Sprintf("%dx%dx%d", grid.Width, grid.Height, grid.Depth),
		EventsProcessed: result.Snapshot.Final.EventsProcessed,
		CurrentTime:     result.Snapshot.Final.CurrentTime,
		ProcessCount:    result.Snapshot.Final.ProcessCount,
		TraceHash:       hash,
		Passed:          result.Passed(),
	}
	for _, f := range result.Failures {
		out.Failures = append(out.Failures, f.Error())
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Emit(out, renderRunResult(out)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	if !result.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %q failed %d expectation(s)", s.Name, len(result.Failures)))
	}
	return nil
}

func recordSteps(ctx context.Context, w *journal.RunWriter, steps []scenario.Step) error {
	for _, step := range steps {
		var err error
		switch {
		case step.Spawn != nil:
			err = w.RecordSpawn(ctx, step.Spawn.X, step.Spawn.Y, step.Spawn.Z)
		case step.Inject != nil:
			err = w.RecordInject(ctx, step.Inject.X, step.Inject.Y, step.Inject.Z, step.Inject.Value)
		case step.Run != nil:
			err = w.RecordRun(ctx, step.Run.Budget)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func renderRunResult(r runResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario:         %s\n", r.Scenario)
	if r.RunID != "" {
		fmt.Fprintf(&b, "Run ID:           %s\n", r.RunID)
	}
	fmt.Fprintf(&b, "Grid:             %s\n", r.Grid)
	fmt.Fprintf(&b, "Events processed: %d\n", r.EventsProcessed)
	fmt.Fprintf(&b, "Current time:     %d\n", r.CurrentTime)
	fmt.Fprintf(&b, "Process count:    %d\n", r.ProcessCount)
	fmt.Fprintf(&b, "Trace hash:       %s\n", r.TraceHash)
	if r.Passed {
		b.WriteString("Result:           PASS\n")
	} else {
		b.WriteString("Result:           FAIL\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  - %s\n", strings.ReplaceAll(f, "\n", "\n    "))
		}
	}
	return b.String()
}
