package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/felix/internal/store"
)

// openStore opens the database at opts.DBPath, wrapping failures as a
// command error (exit code 2, §6.5).
func openStore(opts *RootOptions) (*store.Store, error) {
	s, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return s, nil
}

// formatterFor builds an OutputFormatter bound to cmd's stdout/stderr
// streams under the persistent --format/--verbose flags.
func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// ctxFor returns cmd's context, falling back to context.Background() when
// the command was invoked without one (e.g. outside cmd.ExecuteContext).
func ctxFor(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseRecordID parses a decimal, non-negative record id argument.
func parseRecordID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
