package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/docsync/pkg/errors"
	"github.com/arthur-debert/docsync/pkg/pathops"
	"github.com/arthur-debert/docsync/pkg/types"
)

// operationFlags are the flags copy, move and distribute share.
type operationFlags struct {
	behavior          string
	folderBehavior    []string
	concurrency       int
	flatten           bool
	prefix            string
	sourceContentRoot string
}

func (f *operationFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.behavior, "behavior", "", MsgFlagBehavior)
	flags.StringArrayVar(&f.folderBehavior, "folder-behavior", nil, MsgFlagFolderBehavior)
	flags.IntVar(&f.concurrency, "concurrency", types.DefaultConcurrencyLimit, MsgFlagConcurrency)
	flags.BoolVar(&f.flatten, "flatten", false, MsgFlagFlatten)
	flags.StringVar(&f.prefix, "prefix", "", MsgFlagPrefix)
	flags.StringVar(&f.sourceContentRoot, "source-content-root", "", MsgFlagSourceContentRoot)
}

// overrides returns config overrides for the flags the user set.
func (f *operationFlags) overrides(cmd *cobra.Command) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	changed := cmd.Flags().Changed

	if changed("behavior") {
		b, err := types.ParseBehavior(f.behavior)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --behavior")
		}
		out["default_behavior"] = string(b)
	}
	if len(f.folderBehavior) > 0 {
		folders, err := parseFolderBehaviors(f.folderBehavior)
		if err != nil {
			return nil, err
		}
		out["folder_behavior"] = folders
	}
	if changed("concurrency") {
		out["concurrency_limit"] = f.concurrency
	}
	if changed("flatten") {
		out["flatten"] = f.flatten
	}
	if changed("prefix") {
		out["prefix"] = f.prefix
	}
	if changed("source-content-root") {
		out["source_content_root"] = f.sourceContentRoot
	}
	return out, nil
}

// parseFolderBehaviors turns path=behavior pairs into a map.
func parseFolderBehaviors(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput, "--folder-behavior %q must be path=behavior", pair)
		}
		b, err := types.ParseBehavior(value)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid --folder-behavior %q", pair)
		}
		out[strings.TrimSpace(key)] = string(b)
	}
	return out, nil
}

// request builds a path operation request. Relative paths are taken
// from the dataset root.
func (s *session) request(source, target string) (pathops.Request, error) {
	src, err := s.relPath(source)
	if err != nil {
		return pathops.Request{}, err
	}
	tgt, err := s.relPath(target)
	if err != nil {
		return pathops.Request{}, err
	}
	return pathops.Request{
		FS:          s.fs,
		Source:      src,
		Target:      tgt,
		DatasetRoot: s.paths.DatasetRoot(),
		Options:     s.config.Options,
	}, nil
}

func newTransferCmd(g *globals, move bool) *cobra.Command {
	flags := &operationFlags{}
	use, short := "copy <source> <target>", MsgCopyShort
	if move {
		use, short = "move <source> <target>", MsgMoveShort
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Example: `  docsync copy docs/guide site/guide
  docsync move docs/old-api.md docs/api/reference.md
  docsync copy docs site/docs --behavior add --folder-behavior api=mirror
  docsync copy docs/guide site --flatten --prefix guide`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := flags.overrides(cmd)
			if err != nil {
				return err
			}
			s, err := g.open(cmd, overrides)
			if err != nil {
				return err
			}
			req, err := s.request(args[0], args[1])
			if err != nil {
				return err
			}

			op := pathops.Copy
			if move {
				op = pathops.Move
			}
			result, err := op(cmd.Context(), req)
			if err != nil {
				return err
			}

			verb := "Copied"
			if move {
				verb = "Moved"
			}
			printResult(cmd.OutOrStdout(), verb, req.Target, result, s.config.DryRun)
			if result.Links.HasErrors() {
				return fmt.Errorf("link rewriting failed for %d file(s)", len(result.Links.Errors))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
