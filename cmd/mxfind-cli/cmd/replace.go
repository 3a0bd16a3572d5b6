package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mxfind/internal/application/commands"
	"mxfind/internal/domain"
)

var (
	replaceDocument string
	replaceTarget   string
	replaceProperty string
)

var replaceCmd = &cobra.Command{
	Use:   "replace <term> <replacement>",
	Short: "Replace a term across the model",
	Long: `Search for a term, then replace it in every match.

With --target only the match on that element is changed; --document limits
the replace to one document. An empty replacement removes the term.

Examples:
  mxfind-cli replace customer client
  mxfind-cli replace customer client --document d-3f2a
  mxfind-cli replace customer client --document d-3f2a --target w1 --property caption`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		term, replacement := args[0], args[1]

		h, err := GetHost()
		if err != nil {
			return err
		}

		found, err := newSearch(h, term).Execute(ctx)
		if err != nil {
			return err
		}

		var run *commands.ReplaceCommand
		if replaceTarget != "" {
			if replaceDocument == "" {
				return fmt.Errorf("--target needs --document")
			}
			result, match, ok := domain.LocateMatch(found.Results, replaceDocument, replaceTarget, replaceProperty)
			if !ok {
				return fmt.Errorf("no match for %q on %s in %s", term, replaceTarget, replaceDocument)
			}
			run = commands.NewReplaceMatchCommand(h, logger, result, match, term, replacement)
		} else {
			results := domain.FilterDocument(found.Results, replaceDocument)
			if len(results) == 0 {
				fmt.Println("No results found")
				return nil
			}
			run = commands.NewReplaceCommand(h, logger, results, term, replacement)
		}

		report, err := run.Execute(ctx)
		if report != nil {
			for _, r := range report.Replacements {
				fmt.Printf("%s %s.%s: %s -> %s\n", r.DocumentID, r.TargetID, r.PropertyName, r.OldValue, r.NewValue)
			}
			fmt.Println(report.Message)
			if report.Skipped > 0 {
				fmt.Fprintf(os.Stderr, "%d matches skipped (read-only)\n", report.Skipped)
			}
		}
		if err != nil {
			for _, e := range splitErrors(err) {
				fmt.Fprintln(os.Stderr, e)
			}
			return errors.New("some documents were not updated")
		}
		return nil
	},
}

// splitErrors unpacks an errors.Join result into its parts
func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func init() {
	replaceCmd.Flags().StringVar(&replaceDocument, "document", "", "only replace inside this document")
	replaceCmd.Flags().StringVar(&replaceTarget, "target", "", "only replace the match on this element (needs --document)")
	replaceCmd.Flags().StringVar(&replaceProperty, "property", "", "property of the target element (default: first match)")
	rootCmd.AddCommand(replaceCmd)
}
