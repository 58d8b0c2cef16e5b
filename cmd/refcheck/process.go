package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/process"
)

var processFlags struct {
	style       string
	output      string
	resolveDOIs bool
	noValidate  bool
	noFormat    bool
	webSearch   bool
	retractions bool
	examples    []string
	mailto      string
}

func init() {
	processCmd.Flags().StringVar(&processFlags.style, "style", "", "Citation style (apa, mla, chicago, vancouver, ieee)")
	processCmd.Flags().StringVarP(&processFlags.output, "output", "o", "", "Output path for the rewritten document")
	processCmd.Flags().BoolVar(&processFlags.resolveDOIs, "resolve-dois", true, "Look up missing DOIs on CrossRef")
	processCmd.Flags().BoolVar(&processFlags.noValidate, "no-validate", false, "Skip validation")
	processCmd.Flags().BoolVar(&processFlags.noFormat, "no-format", false, "Skip reformatting and document rewrite")
	processCmd.Flags().BoolVar(&processFlags.webSearch, "web-search", false, "Search CrossRef for unmatched citations")
	processCmd.Flags().BoolVar(&processFlags.retractions, "retractions", false, "Check references with DOIs for retractions")
	processCmd.Flags().StringArrayVar(&processFlags.examples, "example", nil, "Example reference in the target style (repeatable)")
	processCmd.Flags().StringVar(&processFlags.mailto, "mailto", "", "Contact address for CrossRef's polite pool")
	rootCmd.AddCommand(processCmd)
}

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run the full citation pipeline on a manuscript",
	Long: `Run the full pipeline: detect citations, parse references, resolve
missing DOIs, validate, reformat the reference list, and write a
corrected copy of the document.

The target style comes from --style, or is learned from --example
references when given. PDF input is read-only: formatted references
are reported but no document is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := mustGlobalConfig()

	opts := process.Options{
		Style:            defaultStyle(processFlags.style),
		ExampleCitations: processFlags.examples,
		ResolveDOIs:      processFlags.resolveDOIs,
		Validate:         !processFlags.noValidate,
		Format:           !processFlags.noFormat,
		WebSearch:        processFlags.webSearch || cfg.WebSearch,
		Retractions:      processFlags.retractions,
		OutputPath:       processFlags.output,
	}
	if opts.ResolveDOIs || opts.WebSearch || opts.Retractions {
		opts.API = newAPIClient(processFlags.mailto)
	}

	res, err := process.Run(cmd.Context(), args[0], opts)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Detected style: %s\n", res.DetectedType)
		fmt.Printf("Citations: %d, references: %d\n", len(res.Citations), len(res.References))
		if res.ResolvedDOIs > 0 {
			fmt.Printf("Resolved %d missing DOIs\n", res.ResolvedDOIs)
		}
		if res.Report != nil {
			fmt.Printf("\n%s\n", res.Summary)
			printIssuesHuman(res.Report.Issues)
		}
		if len(res.Formatted) > 0 {
			fmt.Printf("\nFormatted references:\n")
			for i, line := range res.Formatted {
				fmt.Printf("%d. %s\n", i+1, line)
			}
		}
		if res.OutputPath != "" {
			fmt.Printf("\nWrote %s\n", res.OutputPath)
		}
		return nil
	}
	return outputJSON(res)
}
