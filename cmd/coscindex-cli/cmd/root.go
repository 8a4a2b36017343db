package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"coscindex/internal/adapters/filesystem"
	"coscindex/internal/adapters/sqlite"
	"coscindex/internal/application/commands"
	"coscindex/internal/config"
	"coscindex/internal/domain"
)

var (
	rootPath string
	dbPath   string
	quiet    bool

	cfg    *config.Config
	repo   *filesystem.Repository
	store  *sqlite.Store
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coscindex-cli",
	Short: "Index and query a research data repository",
	Long: `coscindex-cli crawls a mirror of a research data repository into a
flat snapshot of projects, resources and files, caches it, and answers
queries over it.

Resources are grouped into schemes by their application profile. Metadata
of the files a source selects is flattened into one table; sample comments
are parsed into columns and compositions are derived from them.

A source is a scheme name ("Sample"), a resource index ("12") or a list of
resource indices ("1,2,5").`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("root") {
			cfg.Repository.Root = rootPath
		}
		if cmd.Flags().Changed("db") {
			cfg.Storage.Path = dbPath
		}

		out := io.Writer(os.Stderr)
		if quiet {
			out = io.Discard
		}
		logger = log.New(out, "", 0)

		repo = filesystem.NewRepository(cfg.Repository.Root)
		store = sqlite.NewStore(cfg.Storage.Path)
		return store.Open(repo.Root())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", config.RepositoryPath(), "path to the repository mirror")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the snapshot cache (default: per mirror, under the user data directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings and progress")
}

// loadCatalog reads the cached snapshot
func loadCatalog(ctx context.Context) (*domain.Catalog, error) {
	snap, err := commands.NewLoadSnapshotCommand(store, logger).Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w (run coscindex-cli crawl first)", err)
	}
	return domain.NewCatalog(snap)
}
