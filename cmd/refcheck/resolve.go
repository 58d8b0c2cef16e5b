package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/resolve"
)

var resolveMailto string

func init() {
	resolveCmd.Flags().StringVar(&resolveMailto, "mailto", "", "Contact address for CrossRef's polite pool")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Fill missing DOIs via CrossRef search",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

// ResolveResult is the response for the resolve command.
type ResolveResult struct {
	Resolved   int                 `json:"resolved"`
	Failures   []ResolveFailure    `json:"failures"`
	References []citation.Citation `json:"references"`
}

// ResolveFailure records one reference whose lookup errored.
type ResolveFailure struct {
	ReferenceID string `json:"reference_id"`
	Error       string `json:"error"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	refs := mustLoadReferences(args[0])

	resolver := resolve.New(newAPIClient(resolveMailto))
	updated, failures := resolver.FillDOIs(cmd.Context(), refs)

	res := ResolveResult{Resolved: updated, Failures: []ResolveFailure{}, References: refs}
	for _, f := range failures {
		res.Failures = append(res.Failures, ResolveFailure{ReferenceID: f.RefID, Error: f.Err.Error()})
	}

	if humanOutput {
		fmt.Printf("Resolved %d of %d references\n\n", updated, len(refs))
		for _, ref := range refs {
			marker := " "
			if ref.DOI != "" {
				marker = "+"
			}
			fmt.Printf("%s %s  %s\n", marker, ref.ID, ref.DOI)
		}
		for _, f := range res.Failures {
			fmt.Printf("! %s  lookup failed: %s\n", f.ReferenceID, f.Error)
		}
		return nil
	}
	return outputJSON(res)
}
