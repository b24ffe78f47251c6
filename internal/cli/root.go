package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/docsync/internal/version"
	"github.com/arthur-debert/docsync/pkg/config"
	"github.com/arthur-debert/docsync/pkg/filesystem"
	"github.com/arthur-debert/docsync/pkg/logging"
	"github.com/arthur-debert/docsync/pkg/paths"
	"github.com/arthur-debert/docsync/pkg/types"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	verbosity  int
	dryRun     bool
	root       string
	configFile string
}

// session is the resolved environment a command runs in.
type session struct {
	paths  paths.Paths
	config *config.Config
	fs     types.FS
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "docsync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().
				Str("command", cmd.Name()).
				Str("build", version.String()).
				Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", MsgFlagConfig)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTransferCmd(g, false))
	rootCmd.AddCommand(newTransferCmd(g, true))
	rootCmd.AddCommand(newDistributeCmd(g))
	rootCmd.AddCommand(newDownloadCmd(g))
	rootCmd.AddCommand(newRelinkCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))

	return rootCmd
}

// open resolves the dataset root and loads the configuration with the
// given flag overrides applied last.
func (g *globals) open(cmd *cobra.Command, overrides map[string]interface{}) (*session, error) {
	p, err := paths.New(g.root)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize paths: %w", err)
	}
	if p.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackRoot, p.DatasetRoot())
	}

	if overrides == nil {
		overrides = map[string]interface{}{}
	}
	if g.dryRun {
		overrides["dry_run"] = true
	}

	cfg, err := config.LoadForDataset(p, g.configFile, overrides)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("root", p.DatasetRoot()).
		Bool("dryRun", cfg.DryRun).
		Msg("Session opened")

	return &session{paths: p, config: cfg, fs: filesystem.NewOS()}, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  `Print detailed version information including commit hash and build date`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "docsync version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}

// datasetPath resolves p against the dataset root unless it is absolute.
func (s *session) datasetPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return s.paths.Abs(filepath.ToSlash(p))
}

// relPath returns p relative to the dataset root. Relative input already
// is; absolute input must lie inside the dataset.
func (s *session) relPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return s.paths.Rel(p)
	}
	return filepath.ToSlash(p), nil
}
