package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mxfind/internal/application/commands"
)

var openCmd = &cobra.Command{
	Use:   "open <document-id>",
	Short: "Open a document in $EDITOR",
	Long: `Open the file of a document in $EDITOR, then $VISUAL, then the first
editor found on PATH. Only the filesystem store has files to open.

Examples:
  mxfind-cli open d-3f2a9c01b7e4d512`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		h, err := GetHost()
		if err != nil {
			return err
		}

		result, err := commands.NewOpenDocumentCommand(h, args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
