package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coscindex/internal/application/commands"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the project hierarchy",
	Long: `Display projects, sub-projects and resources of the snapshot as a tree.
Inconsistent cross-references found while building it are reported after
the tree.

Example:
  coscindex-cli tree`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		result, err := commands.NewBuildTreeCommand(catalog.Snapshot()).Execute(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTree(result.Root))
		for _, p := range result.Problems {
			logger.Printf("Warning: inconsistent snapshot: %s", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
