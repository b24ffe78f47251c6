package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/docsync/pkg/config"
	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/paths"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
	}
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigShowCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd, nil)
			if err != nil {
				return err
			}
			out, err := config.Render(s.config, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", MsgFlagFormat)
	return cmd
}

func newConfigInitCmd(g *globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New(g.root)
			if err != nil {
				return fmt.Errorf("failed to initialize paths: %w", err)
			}
			target := filepath.Join(p.DatasetRoot(), paths.DatasetConfigFiles[0])

			if _, err := os.Stat(target); err == nil && !force {
				cmd.PrintErrf(MsgConfigExists, target)
				return errors.Newf(errors.ErrInvalidInput, "%s already exists", target)
			}

			content, err := config.GenerateConfigContent()
			if err != nil {
				return err
			}
			if g.dryRun {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return errors.IO("write", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}
