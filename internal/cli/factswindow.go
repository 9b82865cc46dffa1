package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/felix/internal/parser"
)

// FactsWindowOptions holds flags for the facts-window command.
type FactsWindowOptions struct {
	*RootOptions
	RecordID string
}

// NewFactsWindowCommand creates the facts-window query command (§4.5).
func NewFactsWindowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FactsWindowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "facts-window <t1_ms> <t2_ms>",
		Short: "List every fact with t1 <= ts <= t2, ordered by ts ascending",
		Long: `facts_window(t1, t2, record_id?) (§4.5): every fact with t1 <= ts <= t2,
optionally restricted to one record, ordered by ts ascending.

Example:
  felixctl facts-window 1000 5000 --record 1`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFactsWindow(opts, cmd, args)
		},
	}
	cmd.Flags().StringVar(&opts.RecordID, "record", "", "restrict the window to a single record_id")

	return cmd
}

func runFactsWindow(opts *FactsWindowOptions, cmd *cobra.Command, args []string) error {
	t1, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid t1_ms", err)
	}
	t2, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid t2_ms", err)
	}

	var recordFilter uint64
	var recordFilterSet bool
	if opts.RecordID != "" {
		recordFilter, err = parseRecordID(opts.RecordID)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --record", err)
		}
		recordFilterSet = true
	}

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := ctxFor(cmd)
	rows, err := s.QueryFactsWindow(ctx, t1, t2, recordFilter, recordFilterSet)
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}
	views, err := parser.BuildFactViews(ctx, s, rows)
	if err != nil {
		return WrapExitError(ExitFailure, "resolve facts failed", err)
	}

	f := formatterFor(opts.RootOptions, cmd)
	if f.Format == "json" {
		return f.Success(views)
	}
	return f.Success(renderFactTable(views))
}
