package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"coscindex/internal/application"
	"coscindex/internal/application/commands"
)

var includeEmpty bool

var schemesCmd = &cobra.Command{
	Use:   "schemes",
	Short: "List the metadata schemes of the snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		schemes, err := commands.NewListSchemesCommand(catalog).Execute(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, len(schemes))
		for i, s := range schemes {
			rows[i] = []string{
				s.Name,
				strconv.Itoa(s.Resources),
				humanize.Comma(int64(s.Files)),
				humanize.Bytes(uint64(s.Size)),
				strings.Join(s.Fields, ", "),
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRows([]string{"Scheme", "Resources", "Files", "Size", "Fields"}, rows))
		return nil
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources [scheme]",
	Short: "List resources, optionally of one scheme",
	Long: `List resources with their snapshot index. The index is what a source
argument refers to.

Examples:
  coscindex-cli resources
  coscindex-cli resources Sample --include-empty`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		scheme := ""
		if len(args) == 1 {
			scheme = args[0]
		}
		items, err := commands.NewListResourcesCommand(catalog, scheme, includeEmpty).Execute(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, len(items))
		for i, r := range items {
			rows[i] = []string{
				strconv.Itoa(int(r.Index)),
				r.Scheme,
				r.Path,
				strconv.Itoa(len(r.Files)),
				humanize.Bytes(uint64(r.TotalSize)),
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRows([]string{"#", "Scheme", "Path", "Files", "Size"}, rows))
		return nil
	},
}

var filesCmd = &cobra.Command{
	Use:   "files <source>",
	Short: "List the files a source selects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		items, err := commands.NewResolveFilesCommand(catalog, application.ParseSource(args[0])).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			logger.Printf("Warning: %s does not contain files", args[0])
			return nil
		}

		rows := make([][]string, len(items))
		for i, f := range items {
			meta := "yes"
			if !f.HasMetadata() {
				meta = "no"
			}
			rows[i] = []string{strconv.Itoa(int(f.Index)), f.Path, humanize.Bytes(uint64(f.Size)), meta}
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderRows([]string{"#", "Path", "Size", "Metadata"}, rows))
		return nil
	},
}

func init() {
	resourcesCmd.Flags().BoolVar(&includeEmpty, "include-empty", false, "include resources without files")
	rootCmd.AddCommand(schemesCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(filesCmd)
}
