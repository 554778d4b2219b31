package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/betti-rdl/bettirdl/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-execute a journaled run and verify determinism",
		Long: `Re-execute a journaled run's command stream on a fresh kernel and
compare the replayed trace hash against the recorded one.

A match confirms deterministic execution; a mismatch exits non-zero and
indicates a kernel bug, since identical command streams must always produce
identical traces.

Example:
  bettirdl replay --db runs.db                  # latest run
  bettirdl replay --db runs.db --run <run-id>`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return replayRun(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to replay (default: latest)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// replayResult is the replay command's machine-readable output.
type replayResult struct {
	RunID          string `json:"run_id"`
	Scenario       string `json:"scenario"`
	EventsReplayed int    `json:"events_replayed"`
	RecordedHash   string `json:"recorded_hash"`
	ReplayedHash   string `json:"replayed_hash"`
	Deterministic  bool   `json:"deterministic"`
}

func replayRun(cmd *cobra.Command, opts *ReplayOptions) error {
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

	result, err := jnl.Replay(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	out := replayResult{
		RunID:          runID,
		Scenario:       result.Run.Name,
		EventsReplayed: len(result.Snapshot.Events),
		RecordedHash:   result.Run.TraceHash,
		ReplayedHash:   result.Hash,
		Deterministic:  result.Deterministic,
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Emit(out, renderReplayResult(out)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s replayed non-deterministically", runID))
	}
	return nil
}

// latestRunID returns the most recently created run.
// Run IDs are UUIDv7, so the largest ID is the newest.
func latestRunID(ctx context.Context, jnl *journal.Journal) (string, error) {
	runs, err := jnl.ListRuns(ctx)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if len(runs) == 0 {
		return "", NewExitError(ExitCommandError, "journal contains no runs")
	}
	return runs[len(runs)-1].ID, nil
}

func renderReplayResult(r replayResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run:             %s (%s)\n", r.RunID, r.Scenario)
	fmt.Fprintf(&b, "Events replayed: %d\n", r.EventsReplayed)
	fmt.Fprintf(&b, "Recorded hash:   %s\n", r.RecordedHash)
	fmt.Fprintf(&b, "Replayed hash:   %s\n", r.ReplayedHash)
	if r.Deterministic {
		b.WriteString("Result:          DETERMINISTIC\n")
	} else {
		b.WriteString("Result:          DIVERGED\n")
	}
	return b.String()
}
