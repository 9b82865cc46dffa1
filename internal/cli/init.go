package cli

import (
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command. Opening a database already
// creates its schema and stamps its format generation (store.Open is
// idempotent), so init is mostly a deliberate, discoverable first step for
// an operator rather than a distinct code path.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "init",
		Short:         "Create or open the Felix database at --db",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			gen := s.Generation()
			f := formatterFor(rootOpts, cmd)
			return f.Success(map[string]any{
				"db_path":     rootOpts.DBPath,
				"tag_map":     gen.TagMap,
				"hash_format": gen.HashFormat,
			})
		},
	}
	return cmd
}
