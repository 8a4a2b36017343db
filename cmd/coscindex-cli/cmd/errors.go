package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "List the remote calls that failed during the last crawl",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		records := catalog.Snapshot().Errors
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No failed remote calls")
			return nil
		}
		for _, e := range records {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(errorsCmd)
}
