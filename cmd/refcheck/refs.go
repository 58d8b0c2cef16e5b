package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/citation"
)

func init() {
	rootCmd.AddCommand(refsCmd)
}

var refsCmd = &cobra.Command{
	Use:   "refs <file>",
	Short: "Parse the reference section into structured records",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefs,
}

// RefsResult is the response for the refs command.
type RefsResult struct {
	Count      int                 `json:"count"`
	References []citation.Citation `json:"references"`
}

func runRefs(cmd *cobra.Command, args []string) error {
	refs := mustLoadReferences(args[0])
	if refs == nil {
		refs = []citation.Citation{}
	}

	if humanOutput {
		for _, ref := range refs {
			printReferenceLine(ref)
		}
		fmt.Printf("%d references parsed\n", len(refs))
		return nil
	}
	return outputJSON(RefsResult{Count: len(refs), References: refs})
}
