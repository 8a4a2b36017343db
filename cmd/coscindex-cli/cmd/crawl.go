package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coscindex/internal/adapters/progress"
	"coscindex/internal/application/commands"
)

var (
	crawlFailHard bool
	crawlVerbose  int
	crawlIgnore   []string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the repository and cache the snapshot",
	Long: `Walk every project of the repository mirror, its resources, their files
and the files' metadata, then replace the cached snapshot.

Failed remote calls are recorded and the crawl continues with an empty
result, unless --fail-hard is given.

Examples:
  coscindex-cli crawl
  coscindex-cli crawl --ignore '/Archive/**' -V 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		crawl := commands.NewCrawlCommand(repo, store, logger, progress.NewReporter(quiet))
		crawl.Verbose = cfg.Crawl.Verbose
		crawl.Ignore = cfg.Crawl.Ignore
		if cfg.Crawl.FailHard {
			crawl.Policy = commands.FailHard
		}
		if cmd.Flags().Changed("verbose") {
			crawl.Verbose = crawlVerbose
		}
		if cmd.Flags().Changed("ignore") {
			crawl.Ignore = crawlIgnore
		}
		if cmd.Flags().Changed("fail-hard") {
			crawl.Policy = commands.FailSoft
			if crawlFailHard {
				crawl.Policy = commands.FailHard
			}
		}

		result, err := crawl.Execute(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range result.Snapshot.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return nil
	},
}

func init() {
	crawlCmd.Flags().BoolVar(&crawlFailHard, "fail-hard", false, "abort on the first failed remote call")
	crawlCmd.Flags().IntVarP(&crawlVerbose, "verbose", "V", 1, "log level: 0 silent, 1 projects, 2 resources, 3 files")
	crawlCmd.Flags().StringSliceVar(&crawlIgnore, "ignore", nil, "glob patterns of project paths to skip")
	rootCmd.AddCommand(crawlCmd)
}
