package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/docsync/pkg/linkbatch"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/types"
)

func newRelinkCmd(g *globals) *cobra.Command {
	var (
		docs        []string
		exclude     []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "relink [folder]",
		Short: MsgRelinkShort,
		Long: `Relink scans markdown files and rewrites links written from the dataset
root, such as "/docs/guide.md" or "docs/guide.md" used from another folder,
into links relative to the file that contains them. Links to missing files
are reported and left unchanged.`,
		Example: `  docsync relink
  docsync relink docs --docs docs --docs handbook --exclude 'vendor/**'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("docs") {
				overrides["links"] = map[string]interface{}{"docs_folders": docs}
			}
			if cmd.Flags().Changed("exclude") {
				links, _ := overrides["links"].(map[string]interface{})
				if links == nil {
					links = map[string]interface{}{}
					overrides["links"] = links
				}
				links["exclude"] = exclude
			}
			if cmd.Flags().Changed("concurrency") {
				overrides["concurrency_limit"] = concurrency
			}

			s, err := g.open(cmd, overrides)
			if err != nil {
				return err
			}
			cfg := s.config

			dir := s.paths.DatasetRoot()
			if len(args) == 1 {
				rel, err := s.relPath(args[0])
				if err != nil {
					return err
				}
				dir = s.paths.Abs(rel)
			}

			logger := logging.GetLogger("cli.relink")
			files, err := linkbatch.CollectMarkdownFiles(s.fs, s.paths.DatasetRoot(), dir, cfg.Links.Exclude)
			if err != nil {
				return err
			}
			logger.Info().Int("files", len(files)).Str("dir", dir).Msg("Relinking")

			proc := linkbatch.NewProcessor(s.fs, linkbatch.Config{
				DatasetRoot:      s.paths.DatasetRoot(),
				ConcurrencyLimit: cfg.ConcurrencyLimit,
				DryRun:           cfg.DryRun,
			})
			gen := linkbatch.Normalization{
				DocsFolders: cfg.Links.DocsFolders,
				Exclude:     cfg.Links.Exclude,
			}.Generator()
			summary := proc.Process(cmd.Context(), files, gen)

			out := cmd.OutOrStdout()
			printLinks(out, summary)
			if cfg.DryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			if summary.HasErrors() {
				return fmt.Errorf("relink failed for %d file(s)", len(summary.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&docs, "docs", nil, MsgFlagDocs)
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, MsgFlagExclude)
	cmd.Flags().IntVar(&concurrency, "concurrency", types.DefaultConcurrencyLimit, MsgFlagConcurrency)
	return cmd
}
