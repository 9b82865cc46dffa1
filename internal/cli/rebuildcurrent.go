package cli

import (
	"github.com/spf13/cobra"
)

// NewRebuildCurrentCommand creates the rebuild-current command, a direct
// exposure of §4.5's rebuild_current() (SPEC_FULL.md §D.3).
func NewRebuildCurrentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild-current",
		Short: "Recompute the current-facts view from the fact log",
		Long: `rebuild_current() (§4.5): replace current_facts with one row per
(record_id, field_id) equal to the fact having the maximum ts for that pair.
The result equals what incremental ingest would have produced replaying the
same facts in non-decreasing ts order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.RebuildCurrent(ctxFor(cmd)); err != nil {
				return WrapExitError(ExitFailure, "rebuild failed", err)
			}

			f := formatterFor(rootOpts, cmd)
			return f.Success("current-facts rebuilt")
		},
	}
	return cmd
}
