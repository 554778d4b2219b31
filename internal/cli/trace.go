package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/betti-rdl/bettirdl/internal/journal"
	"github.com/betti-rdl/bettirdl/internal/kernel"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print a journaled run's event trace",
		Long: `Print the processed-event trace of a journaled run, in processing
order: one line per event with its logical time, target coordinate, payload,
resulting process state, and whether it propagated a successor.

Example:
  bettirdl trace --db runs.db                  # latest run
  bettirdl trace --db runs.db --run <run-id> --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTrace(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to trace (default: latest)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// traceOutput is the trace command's machine-readable output.
type traceOutput struct {
	RunID    string                  `json:"run_id"`
	Scenario string                  `json:"scenario"`
	Grid     string                  `json:"grid"`
	Events   []kernel.ProcessedEvent `json:"events"`
}

func showTrace(cmd *cobra.Command, opts *TraceOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	jnl, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := jnl.Close(); closeErr != nil {
			slog.Error("error closing journal", "error", closeErr)
		}
	}()

	runID := opts.RunID
	if runID == "" {
		runID, err = latestRunID(ctx, jnl)
		if err != nil {
			return err
		}
	}

	run, err := jnl.GetRun(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	events, err := jnl.ReadEvents(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	out := traceOutput{
		RunID:    runID,
		Scenario: run.Name,
		Grid:     fmt.Sprintf("%dx%dx%d", run.Grid.Width, run.Grid.Height, run.Grid.Depth),
		Events:   events,
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Emit(out, renderTrace(out)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}

func renderTrace(o traceOutput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (%s), grid %s, %d event(s)\n", o.RunID, o.Scenario, o.Grid, len(o.Events))
	for _, e := range o.Events {
		marker := " "
		if e.Propagated {
			marker = ">" // Successor enqueued at x+1
		}
		fmt.Fprintf(&b, "  t=%-6d %s (%d,%d,%d) value=%-6d state=%-6d\n",
			e.Time, marker, e.Coord.X, e.Coord.Y, e.Coord.Z, e.Value, e.StateAfter)
	}
	return b.String()
}
