package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coscindex/internal/application/commands"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search projects, resources and files",
	Long: `Search project, resource and file names and paths in the snapshot.

Results are ranked by relevance using fuzzy matching.

Examples:
  coscindex-cli search furnace
  coscindex-cli search S1.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		search := commands.NewSearchCommand(catalog.Snapshot(), args[0])
		search.Limit = searchLimit
		results, err := search.Execute(cmd.Context())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found")
			return nil
		}

		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %d %s\n", r.Kind, r.Index, r.Path)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
