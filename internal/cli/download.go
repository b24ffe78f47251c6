package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/docsync/pkg/download"
)

func newDownloadCmd(g *globals) *cobra.Command {
	var (
		retries    int
		extractDir string
	)

	cmd := &cobra.Command{
		Use:   "download <url> <destination>",
		Short: MsgDownloadShort,
		Long: `Download fetches an http(s) or s3 URL into a file. The transfer streams into
"<destination>.partial" and resumes from it on the next run. Transient
network failures are retried.`,
		Example: `  docsync download https://example.com/handbook.zip downloads/handbook.zip
  docsync download s3://bucket/handbook.tar.gz downloads/handbook.tar.gz --extract .`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("retries") {
				overrides["retry_attempts"] = retries
			}
			s, err := g.open(cmd, overrides)
			if err != nil {
				return err
			}
			cfg := s.config

			opts := download.Options{
				MaxRetries: cfg.RetryAttempts,
				Delays:     cfg.RetryDelays(),
				Progress:   download.WriterProgress(cmd.ErrOrStderr()),
				S3Profile:  cfg.Download.S3Profile,
				S3Region:   cfg.Download.S3Region,
			}
			if cfg.Download.CheckSpace {
				opts.FreeSpace = download.DiskFree
			}

			dest := s.datasetPath(args[1])
			result, err := download.NewManager(s.fs, opts).Download(cmd.Context(), args[0], dest)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			resumed := ""
			if result.Resumed {
				resumed = MsgResumedNotice
			}
			fmt.Fprintf(out, MsgDownloadedFormat, humanize.Bytes(uint64(result.Bytes)), result.Destination, resumed)

			if extractDir == "" {
				return nil
			}
			target := s.datasetPath(extractDir)
			n, err := download.Extract(cmd.Context(), s.fs, result.Destination, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, MsgExtractedFormat, n, target)
			return nil
		},
	}

	cmd.Flags().IntVar(&retries, "retries", download.DefaultMaxRetries, MsgFlagRetries)
	cmd.Flags().StringVar(&extractDir, "extract", "", MsgFlagExtract)
	return cmd
}
