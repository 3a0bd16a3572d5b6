package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mxfind/internal/application/commands"
	"mxfind/internal/bootstrap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the project into the SQLite index",
	Long: `Copy every module, folder and document of the project directory into
the SQLite index so it can be searched with --store sqlite.

Documents whose content did not change are kept as they are; documents no
longer in the project are removed.

Examples:
  mxfind-cli import --project ./MyApp
  mxfind-cli import --db /tmp/myapp.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		project, err := bootstrap.OpenProject(cfg, logger)
		if err != nil {
			return err
		}
		idx, err := bootstrap.OpenIndex(cfg, logger)
		if err != nil {
			return err
		}
		defer idx.Close()

		result, err := commands.NewImportCommand(idx, project, logger).Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		if result.Stats.LoadFailures > 0 {
			fmt.Printf("%d documents could not be read and kept their previous copy\n", result.Stats.LoadFailures)
		}
		fmt.Printf("Index: %s (%s)\n", idx.Path(), result.Stats.Duration)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
