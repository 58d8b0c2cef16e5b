package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/importer"
)

var importFormat string

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "Source format: zotero, bibtex, or ris (required)")
	importCmd.MarkFlagRequired("format")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import references from Zotero JSON, BibTeX, or RIS",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

// ImportResult is the response for the import command.
type ImportResult struct {
	Format     string              `json:"format"`
	Count      int                 `json:"count"`
	References []citation.Citation `json:"references"`
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	refs, err := importer.Import(importer.Format(importFormat), data)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownFormat) {
			exitWithError(ExitError, "unknown import format %q (want zotero, bibtex, or ris)", importFormat)
		}
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		for _, ref := range refs {
			printReferenceLine(ref)
		}
		fmt.Printf("%d references imported\n", len(refs))
		return nil
	}
	return outputJSON(ImportResult{Format: importFormat, Count: len(refs), References: refs})
}
