package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/felix/internal/engine"
	"github.com/roach88/felix/internal/parser"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
}

// NewIngestCommand creates the single-record, argv-style ingest command
// (SPEC_FULL.md §D.2): the original implementation's interactive/scriptable
// ingestion path, distinct from the NDJSON bulk path in ingestndjson.go.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <record_id> <ts> <event|observe> Field=type:value [Field=type:value...]",
		Short: "Ingest one or more field facts for a single record",
		Long: `Ingest one or more field facts for a single record at one timestamp.

<ts> accepts a bare epoch-millisecond integer or ergonomic sugar resolved
relative to now ("now", "yesterday 3pm").

Example:
  felixctl ingest 1 1700000000000 event Age=int:6 Status=text:active
  felixctl ingest 1 now observe Temp=float:20.0`,
		Args:          cobra.MinimumNArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, cmd, args)
		},
	}

	return cmd
}

func runIngest(opts *IngestOptions, cmd *cobra.Command, args []string) error {
	recordID, err := parseRecordID(args[0])
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid record_id", err)
	}
	tsMs, err := parser.ParseTimestamp(args[1], time.Now())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid ts", err)
	}
	mode, err := engine.ParseMode(args[2])
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid mode", err)
	}
	items, err := parser.ParseTypedKVArgs(args[3:])
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid field token", err)
	}

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	eng := engine.New(s)
	if err := eng.Ingest(ctxFor(cmd), recordID, tsMs, mode, items); err != nil {
		return WrapExitError(ExitFailure, "ingest failed", err)
	}

	f := formatterFor(opts.RootOptions, cmd)
	return f.Success(map[string]any{
		"record_id": recordID,
		"ts_ms":     tsMs,
		"fields":    len(items),
	})
}
