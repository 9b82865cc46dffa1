package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/felix/internal/parser"
)

// NewSnapshotCommand creates the snapshot_at query command (§4.5).
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <record_id> <t_ms>",
		Short: "Show a record's per-field state as of time t",
		Long: `snapshot_at(record_id, t) (§4.5): for each field of the record, the fact
with the maximum ts satisfying ts <= t. Fields with no qualifying fact are
absent.

Example:
  felixctl snapshot 1 3000`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runSnapshot(rootOpts *RootOptions, cmd *cobra.Command, args []string) error {
	recordID, err := parseRecordID(args[0])
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid record_id", err)
	}
	tMs, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid t_ms", err)
	}

	s, err := openStore(rootOpts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := ctxFor(cmd)
	rows, err := s.SnapshotAt(ctx, recordID, tMs)
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}
	sv, err := parser.BuildSnapshotView(ctx, s, recordID, tMs, rows)
	if err != nil {
		return WrapExitError(ExitFailure, "resolve snapshot failed", err)
	}

	f := formatterFor(rootOpts, cmd)
	if f.Format == "json" {
		return f.Success(sv)
	}
	return f.Success(renderSnapshotTable(sv))
}
