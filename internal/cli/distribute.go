package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/docsync/pkg/pathops"
)

func newDistributeCmd(g *globals) *cobra.Command {
	flags := &operationFlags{}

	cmd := &cobra.Command{
		Use:   "distribute <source>",
		Short: MsgDistributeShort,
		Long: `Distribute copies a folder into the canonical target and every copy-mode
target listed under [[targets]] in the configuration. Symlink-mode targets
are validated and reported but not created.`,
		Example: `  # .docsync.toml
  # [[targets]]
  # path = "site/docs"
  # mode = "canonical"
  #
  # [[targets]]
  # path = "app/help"
  # mode = "symlink"

  docsync distribute docs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := flags.overrides(cmd)
			if err != nil {
				return err
			}
			s, err := g.open(cmd, overrides)
			if err != nil {
				return err
			}
			src, err := s.relPath(args[0])
			if err != nil {
				return err
			}

			result, err := pathops.Distribute(cmd.Context(), pathops.Request{
				FS:          s.fs,
				Source:      src,
				DatasetRoot: s.paths.DatasetRoot(),
				Options:     s.config.Options,
			})
			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), "Distributed", fmt.Sprintf("%d target(s)", len(s.config.Targets)), result, s.config.DryRun)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
