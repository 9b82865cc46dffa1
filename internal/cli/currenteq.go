package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/felix/internal/parser"
	"github.com/roach88/felix/internal/recordset"
	"github.com/roach88/felix/internal/value"
)

// NewCurrentEqCommand creates the current-eq query command (§4.5).
func NewCurrentEqCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current-eq <field> <type:value>",
		Short: "List record_ids whose current value for field equals value",
		Long: `current_eq(field, value) (§4.5): every record_id whose current row for
field matches value.

Example:
  felixctl current-eq Status text:active`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEqQuery(rootOpts, cmd, args[0], args[1], false)
		},
	}
	return cmd
}

// NewEverEqCommand creates the ever-eq query command (§4.5).
func NewEverEqCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ever-eq <field> <type:value>",
		Short: "List record_ids that have ever carried value for field",
		Long: `ever_eq(field, value) (§4.5): every record_id with any fact matching
(field, value) at any point in its history.

Example:
  felixctl ever-eq Status text:active`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEqQuery(rootOpts, cmd, args[0], args[1], true)
		},
	}
	return cmd
}

func runEqQuery(rootOpts *RootOptions, cmd *cobra.Command, fieldArg, valueArg string, ever bool) error {
	canonName, err := value.CanonicalFieldName(fieldArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid field name", err)
	}
	v, err := parser.ParseTypeColonValue(valueArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid type:value", err)
	}

	s, err := openStore(rootOpts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := ctxFor(cmd)

	// current_eq/ever_eq intern field and value to resolve them to ids
	// (§4.5) — a field or value name that has never been seen simply
	// interns to a fresh id with no matching rows, yielding an empty result
	// rather than a referential error.
	var fieldID, valueID int64
	if err := s.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		fieldID, err = s.InternField(ctx, tx, canonName)
		if err != nil {
			return err
		}
		valueID, err = s.InternValue(ctx, tx, v)
		return err
	}); err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: resolve field/value failed", cmd.Name()), err)
	}

	var rows []uint64
	if ever {
		rows, err = s.QueryEverEq(ctx, fieldID, valueID)
	} else {
		rows, err = s.QueryCurrentEq(ctx, fieldID, valueID)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}

	// Collect into a recordset.Set (SPEC_FULL.md §B) rather than emitting
	// the raw query order: it dedupes by construction and ToSortedSlice
	// gives callers a deterministic, ascending record_id order.
	ids := recordset.FromSlice(rows).ToSortedSlice()

	f := formatterFor(rootOpts, cmd)
	return f.Success(map[string]any{
		"field":      canonName,
		"record_ids": ids,
		"count":      len(ids),
	})
}
