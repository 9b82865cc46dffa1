package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/felix/internal/config"
	"github.com/roach88/felix/internal/value"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	DBPath     string
	ConfigPath string

	// Config is the resolved configuration: the built-in defaults, with any
	// --config file's values applied on top. Subcommands consult
	// Config.DefaultMode when their own flag wasn't explicitly set.
	Config config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for felixctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Default()}

	cmd := &cobra.Command{
		Use:   "felixctl",
		Short: "felixctl - an append-only temporal fact engine",
		Long:  "felixctl is the CLI for Felix, an append-only temporal fact engine: it stores typed field facts per record over time and answers current, historical, and windowed queries against them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.ConfigPath != "" {
				cfg, err := config.Load(opts.ConfigPath)
				if err != nil {
					return err
				}
				opts.Config = cfg
				if !cmd.Flags().Changed("db") {
					opts.DBPath = cfg.DBPath
				}
			}
			// §A.2's resource-limit overrides take effect here, applied to
			// every command uniformly; a config with no [limits] section
			// decodes to all-zero fields, which SetLimits treats as "leave
			// the built-in ceiling alone".
			value.SetLimits(opts.Config.Limits.ToValueLimits())
			return nil
		},
	}

	defaults := config.Default()
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", defaults.DBPath, "path to the Felix database file")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "optional TOML config file with CLI defaults")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewIngestNDJSONCommand(opts))
	cmd.AddCommand(NewCurrentEqCommand(opts))
	cmd.AddCommand(NewEverEqCommand(opts))
	cmd.AddCommand(NewFactsWindowCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewRebuildCurrentCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
