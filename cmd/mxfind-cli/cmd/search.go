package cmd

import (
	"context"
	"fmt"
	"os"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"mxfind/internal/application/commands"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the model",
	Long: `Search every name-like property in the model for a term.

Matching is a case-insensitive substring match.

Examples:
  mxfind-cli search customer
  mxfind-cli search --json Customer`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		h, err := GetHost()
		if err != nil {
			return err
		}

		report, err := newSearch(h, args[0]).Execute(ctx)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := j.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			results := report.Results
			if results == nil {
				results = []domain.SearchResult{}
			}
			return enc.Encode(results)
		}

		if len(report.Results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		fmt.Printf("%d matches in %d documents\n", report.MatchCount(), len(report.Results))
		for _, r := range report.Results {
			fmt.Printf("\n%s [%s] %s\n", r.QualifiedName, r.CollectionLabel, r.DocumentID)
			for _, m := range r.Matches {
				fmt.Printf("  %-10s %-24s %s.%s", m.KindLabel, m.Value, m.TargetID, m.PropertyName)
				if p := m.PathDisplay(); p != "" {
					fmt.Printf("  (%s)", p)
				}
				fmt.Println()
			}
		}
		if n := len(report.Diagnostics); n > 0 {
			fmt.Fprintf(os.Stderr, "%d documents could not be read, see the log\n", n)
		}
		return nil
	},
}

// newSearch builds a search command with the configured batch sizes
func newSearch(h ports.Host, term string) *commands.SearchCommand {
	c := commands.NewSearchCommand(h, logger, term)
	c.ProjectBatchSize = cfg.ProjectBatchSize
	c.CollectionBatchSize = cfg.CollectionBatchSize
	return c
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}
