package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
)

var catCmd = &cobra.Command{
	Use:   "cat <file-index>",
	Short: "Print the content of a file",
	Long: `Stream the content of a file from the repository. The file index is the
one shown by the files command.

Example:
  coscindex-cli cat 42 > sample.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid file index %q", args[0])
		}
		catalog, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		rc, err := commands.NewFileContentCommand(repo, catalog.Snapshot(), domain.FileIndex(idx)).Execute(cmd.Context())
		if err != nil {
			return err
		}
		defer rc.Close()
		_, err = io.Copy(cmd.OutOrStdout(), rc)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
