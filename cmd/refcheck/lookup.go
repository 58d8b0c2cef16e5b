package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/crossref"
)

var lookupFlags struct {
	query  string
	doi    string
	rows   int
	mailto string
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFlags.query, "query", "", "Free-text bibliographic query")
	lookupCmd.Flags().StringVar(&lookupFlags.doi, "doi", "", "Look up a single work by DOI")
	lookupCmd.Flags().IntVar(&lookupFlags.rows, "rows", crossref.DefaultSearchRows, "Result count for --query")
	lookupCmd.Flags().StringVar(&lookupFlags.mailto, "mailto", "", "Contact address for CrossRef's polite pool")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup (--query <text> | --doi <doi>)",
	Short: "Query CrossRef directly",
	RunE:  runLookup,
}

// LookupResult is the response for query-mode lookups.
type LookupResult struct {
	Count int             `json:"count"`
	Works []crossref.Work `json:"works"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	if (lookupFlags.query == "") == (lookupFlags.doi == "") {
		exitWithError(ExitError, "exactly one of --query or --doi is required")
	}
	client := newAPIClient(lookupFlags.mailto)

	if lookupFlags.doi != "" {
		work, err := client.WorkByDOI(cmd.Context(), lookupFlags.doi)
		if err != nil {
			if crossref.IsNotFound(err) {
				exitWithError(ExitDataError, "no work found for DOI %s", lookupFlags.doi)
			}
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			printWorkHuman(*work)
			return nil
		}
		return outputJSON(work)
	}

	works, err := client.Search(cmd.Context(), lookupFlags.query, crossref.SearchOptions{Rows: lookupFlags.rows})
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if works == nil {
		works = []crossref.Work{}
	}
	if humanOutput {
		for i, w := range works {
			fmt.Printf("%d. ", i+1)
			printWorkHuman(w)
		}
		fmt.Printf("%d results\n", len(works))
		return nil
	}
	return outputJSON(LookupResult{Count: len(works), Works: works})
}

func printWorkHuman(w crossref.Work) {
	fmt.Printf("%s\n", truncateString(w.Title, listTitleMaxLen))
	names := make([]string, 0, len(w.Authors))
	for _, a := range w.Authors {
		if a.Given != "" {
			names = append(names, a.Family+", "+a.Given)
		} else {
			names = append(names, a.Family)
		}
	}
	fmt.Printf("   %s (%d)\n", formatAuthorsShort(names, 3), w.Year)
	if w.Journal != "" {
		fmt.Printf("   %s\n", w.Journal)
	}
	fmt.Printf("   doi: %s\n\n", w.DOI)
}
