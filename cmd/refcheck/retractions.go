package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/retraction"
)

var retractionsMailto string

func init() {
	retractionsCmd.Flags().StringVar(&retractionsMailto, "mailto", "", "Contact address for CrossRef's polite pool")
	rootCmd.AddCommand(retractionsCmd)
}

var retractionsCmd = &cobra.Command{
	Use:   "retractions <file>",
	Short: "Check references with DOIs for retractions",
	Long: `Check every reference that carries a DOI against CrossRef's
retraction metadata. References without a DOI cannot be checked and
are counted separately.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetractions,
}

func runRetractions(cmd *cobra.Command, args []string) error {
	refs := mustLoadReferences(args[0])

	checker := retraction.NewChecker(newAPIClient(retractionsMailto))
	stats := checker.Stats(cmd.Context(), refs)

	if humanOutput {
		fmt.Printf("References:   %d\n", stats.TotalReferences)
		fmt.Printf("With DOI:     %d\n", stats.WithDOI)
		fmt.Printf("Without DOI:  %d (not checkable)\n", stats.WithoutDOI)
		fmt.Printf("Checked OK:   %d\n", stats.CheckedOK)
		fmt.Printf("Retracted:    %d\n", stats.RetractedCount)
		for _, id := range stats.RetractedIDs {
			fmt.Printf("  [RETRACTED] %s\n", id)
		}
		for _, e := range stats.Errors {
			fmt.Printf("  [ERROR] %s: %s\n", e.ReferenceID, e.Message)
		}
		return nil
	}
	return outputJSON(stats)
}
