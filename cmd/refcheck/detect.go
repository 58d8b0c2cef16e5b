package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/detect"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "List in-text citations found in a manuscript",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

// DetectResult is the response for the detect command.
type DetectResult struct {
	DetectedType citation.CitationType     `json:"detected_type"`
	Count        int                       `json:"count"`
	Citations    []citation.InTextCitation `json:"citations"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	doc := mustLoadDocument(args[0])
	cites, detected := detect.Detect(doc.BodyText)
	if cites == nil {
		cites = []citation.InTextCitation{}
	}

	if humanOutput {
		fmt.Printf("Detected style: %s\n\n", detected)
		for i, c := range cites {
			fmt.Printf("%d. %s\n", i+1, c.Text)
			if len(c.ReferenceIDs) > 0 {
				fmt.Printf("   refs: %s\n", strings.Join(c.ReferenceIDs, ", "))
			}
		}
		fmt.Printf("\n%d citations found\n", len(cites))
		return nil
	}
	return outputJSON(DetectResult{DetectedType: detected, Count: len(cites), Citations: cites})
}
