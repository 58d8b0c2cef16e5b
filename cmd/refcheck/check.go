package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/process"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Quick-check a manuscript without network lookups",
	Long: `Quick-check a manuscript: count in-text citations and references,
report the detected citation style, list unmatched citations, and
estimate how long a full run would take.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuickCheck,
}

func runQuickCheck(cmd *cobra.Command, args []string) error {
	res, err := process.QuickCheck(args[0])
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Citations:  %d (%s)\n", res.TotalCitations, res.DetectedType)
		fmt.Printf("References: %d\n", res.TotalReferences)
		fmt.Printf("Matched:    %d\n", res.MatchedCount)
		fmt.Printf("Unmatched:  %d\n", res.UnmatchedCount)
		for _, text := range res.Unmatched {
			fmt.Printf("  - %s\n", text)
		}
		fmt.Printf("\nEstimated full run: ~%ds\n", res.EstimatedTimeSeconds)
		return nil
	}
	return outputJSON(res)
}
