package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coscindex/internal/application/commands"
)

var (
	exportExpr   string
	exportIndent int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the snapshot as JSON",
	Long: `Print the snapshot as one JSON document with the fields downloadTime,
projects, resources, files and errors. A JSONPath expression selects parts
of it.

Examples:
  coscindex-cli export > snapshot.json
  coscindex-cli export -e '$.resources[?(@.size > 0)].path'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		export := commands.NewExportCommand(catalog.Snapshot(), exportExpr)
		export.Indent = exportIndent
		out, err := export.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportExpr, "expr", "e", "", "JSONPath expression to evaluate")
	exportCmd.Flags().IntVar(&exportIndent, "indent", 2, "indentation of the JSON output")
	rootCmd.AddCommand(exportCmd)
}
