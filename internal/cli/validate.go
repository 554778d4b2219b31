package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/betti-rdl/bettirdl/internal/config"
	"github.com/betti-rdl/bettirdl/internal/scenario"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Config string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files: YAML shape, unknown fields, step structure,
and grid dimensions. With --config, also validates a CUE grid configuration.

All files are checked; the command fails if any of them is invalid.

Example:
  bettirdl validate demo.yaml smoke.yaml
  bettirdl validate demo.yaml --config grid.cue`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateFiles(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to CUE grid configuration to validate as well")

	return cmd
}

// validateOutput is the validate command's machine-readable output.
type validateOutput struct {
	Checked []fileCheck `json:"checked"`
	Valid   bool        `json:"valid"`
}

type fileCheck struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func validateFiles(cmd *cobra.Command, opts *ValidateOptions, paths []string) error {
	out := validateOutput{Valid: true}

	for _, path := range paths {
		check := fileCheck{Path: path, Valid: true}
		if _, err := scenario.Load(path); err != nil {
			check.Valid = false
			check.Error = err.Error()
			out.Valid = false
		}
		out.Checked = append(out.Checked, check)
	}

	if opts.Config != "" {
		check := fileCheck{Path: opts.Config, Valid: true}
		if _, err := config.Load(opts.Config); err != nil {
			check.Valid = false
			check.Error = err.Error()
			out.Valid = false
		}
		out.Checked = append(out.Checked, check)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Emit(out, renderValidate(out)); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	if !out.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

func renderValidate(o validateOutput) string {
	var b strings.Builder
	for _, c := range o.Checked {
		if c.Valid {
			fmt.Fprintf(&b, "OK    %s\n", c.Path)
		} else {
			fmt.Fprintf(&b, "FAIL  %s\n      %s\n", c.Path, strings.ReplaceAll(c.Error, "\n", "\n      "))
		}
	}
	return b.String()
}
