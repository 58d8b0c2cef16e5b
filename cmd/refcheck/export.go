package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/export"
)

var exportFlags struct {
	format string
	output string
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "bibtex", "Export format: bibtex or ris")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the reference list as BibTeX or RIS",
	Long: `Export the parsed reference list as BibTeX or RIS. Incomplete
references export anyway; missing fields are reported as warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// ExportResult is the response for the export command.
type ExportResult struct {
	Format   string   `json:"format"`
	Count    int      `json:"count"`
	Content  string   `json:"content,omitempty"`
	Path     string   `json:"path,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	refs := mustLoadReferences(args[0])

	var content string
	var warnings []export.Warning
	switch exportFlags.format {
	case "bibtex":
		content, warnings = export.ToBibTeX(refs)
	case "ris":
		content, warnings = export.ToRIS(refs)
	default:
		exitWithError(ExitError, "unknown export format %q (want bibtex or ris)", exportFlags.format)
	}

	res := ExportResult{Format: exportFlags.format, Count: len(refs)}
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, w.String())
	}

	if exportFlags.output != "" {
		if err := os.WriteFile(exportFlags.output, []byte(content), 0o644); err != nil {
			exitWithError(ExitError, "writing %s: %v", exportFlags.output, err)
		}
		res.Path = exportFlags.output
		if humanOutput {
			fmt.Printf("Wrote %d references to %s\n", len(refs), exportFlags.output)
			for _, w := range res.Warnings {
				fmt.Printf("warning: %s\n", w)
			}
			return nil
		}
		return outputJSON(res)
	}

	if humanOutput {
		fmt.Print(content)
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return nil
	}
	res.Content = content
	return outputJSON(res)
}
