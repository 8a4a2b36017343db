package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"coscindex/internal/application"
	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
)

var (
	rawComments bool
	outputTSV   bool

	onlyActual   bool
	targetAt     bool
	noExpandBase bool
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <source>",
	Short: "Show the metadata table of the files a source selects",
	Long: `Flatten the metadata of the selected files into one row per file. All
files must belong to resources of the same scheme.

Comments of Sample files are split into columns unless --raw-comments is
given.

Examples:
  coscindex-cli metadata Sample
  coscindex-cli metadata 3,4 --tsv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		meta := commands.NewMetadataCommand(catalog, logger, application.ParseSource(args[0]))
		meta.ParseComments = !rawComments
		result, err := meta.Execute(cmd.Context())
		if err != nil {
			return err
		}
		if result.Table == nil {
			return nil
		}
		logger.Printf("scheme: %s, %d rows", result.Scheme, result.Table.Len())
		printTable(cmd, result.Table)
		return nil
	},
}

var compositionCmd = &cobra.Command{
	Use:   "composition <source>",
	Short: "Derive composition and temperature of samples",
	Long: `Read the composition in wt.% and the processing temperature from the
parsed sample comments. Target wt.% is read first and Actual wt.% overrides
it. Base elements receive the remainder to 100.

Examples:
  coscindex-cli composition Sample
  coscindex-cli composition 12 --only-actual`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		comp := commands.NewCompositionCommand(catalog, domain.DefaultElements(), logger, application.ParseSource(args[0]))
		comp.Options.OnlyActual = cfg.Derive.OnlyActual || onlyActual
		comp.Options.ExpandBase = cfg.Derive.ExpandBase && !noExpandBase
		if targetAt {
			comp.Options.Groups = append([]string{domain.GroupTargetAtPercent}, domain.DefaultCompositionGroups...)
		}
		table, err := comp.Execute(cmd.Context())
		if err != nil {
			return err
		}
		if table == nil {
			return nil
		}
		printTable(cmd, table)
		return nil
	},
}

func printTable(cmd *cobra.Command, t *domain.Table) {
	if outputTSV {
		fmt.Fprint(cmd.OutOrStdout(), renderTSV(t))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(t))
}

func init() {
	metadataCmd.Flags().BoolVar(&rawComments, "raw-comments", false, "keep the Comments field as text")
	compositionCmd.Flags().BoolVar(&onlyActual, "only-actual", false, "read only the Actual wt.% composition")
	compositionCmd.Flags().BoolVar(&targetAt, "target-at", false, "also read Target at.%, converted to wt.%")
	compositionCmd.Flags().BoolVar(&noExpandBase, "no-expand-base", false, "keep base elements unresolved")
	for _, c := range []*cobra.Command{metadataCmd, compositionCmd} {
		c.Flags().BoolVar(&outputTSV, "tsv", false, "print tab-separated values")
		rootCmd.AddCommand(c)
	}
}
