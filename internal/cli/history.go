package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/felix/internal/parser"
)

// NewHistoryCommand creates the history command (SPEC_FULL.md §D.1): the
// full, ts-ascending dump of every fact ever recorded for a record, across
// all fields — the spec's flagged Open Question resolved by implementing
// both history and ingest-ndjson under those names.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <record_id>",
		Short: "Show every fact ever recorded for a record, ts ascending",
		Args:  cobra.ExactArgs(1),
		Long: `history(record_id): full audit trail of a record across every field it
has ever carried a value for, ordered by ts ascending (ties broken by
field_id).

Example:
  felixctl history 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runHistory(rootOpts *RootOptions, cmd *cobra.Command, recordIDArg string) error {
	recordID, err := parseRecordID(recordIDArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid record_id", err)
	}

	s, err := openStore(rootOpts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := ctxFor(cmd)
	rows, err := s.History(ctx, recordID)
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}
	views, err := parser.BuildFactViews(ctx, s, rows)
	if err != nil {
		return WrapExitError(ExitFailure, "resolve facts failed", err)
	}

	f := formatterFor(rootOpts, cmd)
	if f.Format == "json" {
		return f.Success(views)
	}
	return f.Success(renderFactTable(views))
}
