package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mylibrary/internal/adapters/tui/styles"
	"mylibrary/internal/application/commands"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the library as CSV",
	Long: `Download every book as a CSV file. The file name comes from the
server and falls back to library.csv.

Examples:
  mylibrary-cli export
  mylibrary-cli export --dir ~/Backups`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := exportDir
		if dir == "" {
			dir = GetConfig().ExportDir
		}
		result, err := commands.NewExportCommand(GetState(), dir).Execute(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(cmd, result.Message)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Bulk-add books from a CSV file",
	Long: `Upload a CSV file. The header row must name an ISBN column and may
name Title and Authors. Header names are case-sensitive. Rows without a title
are filled in by the server's ISBN lookup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewImportCommand(GetState(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}

		t := result.Tally
		printField(cmd, "Total", fmt.Sprint(t.Total))
		printField(cmd, "Imported", styles.Success.Render(fmt.Sprint(t.Successful)))
		failed := fmt.Sprint(t.Failed)
		if t.Failed > 0 {
			failed = styles.ErrorMsg.Render(failed)
		}
		printField(cmd, "Failed", failed)

		if t.HasErrors() {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), styles.Section.Render(fmt.Sprintf("Errors (%d)", len(t.Errors))))
			for _, e := range t.Errors {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+e)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "directory to write into (default $MYLIBRARY_EXPORT_DIR)")
}
