package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/style"
)

var fmtFlags struct {
	style    string
	examples []string
}

func init() {
	fmtCmd.Flags().StringVar(&fmtFlags.style, "style", "", "Citation style: "+strings.Join(style.Names(), ", "))
	fmtCmd.Flags().StringArrayVar(&fmtFlags.examples, "example", nil, "Example reference in the target style (repeatable)")
	rootCmd.AddCommand(fmtCmd)
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Reformat the reference list into a citation style",
	Long: `Reformat the reference list into a citation style and print the
formatted strings. The style is either a named built-in or learned
from --example references. The document itself is not modified; use
"refcheck process" to write a corrected copy.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

// FmtResult is the response for the fmt command.
type FmtResult struct {
	Style      string              `json:"style"`
	References []string            `json:"references"`
	Warnings   map[string][]string `json:"warnings,omitempty"`
}

func runFmt(cmd *cobra.Command, args []string) error {
	refs := mustLoadReferences(args[0])

	name := defaultStyle(fmtFlags.style)
	tpl, ok := style.ByName(name)
	if !ok {
		exitWithError(ExitError, "unknown style %q (want one of %s)", name, strings.Join(style.Names(), ", "))
	}
	if len(fmtFlags.examples) > 0 {
		if learned, conclusive := style.Learn(fmtFlags.examples); conclusive {
			tpl = learned
		}
	}

	formatted, warnings := style.FormatReferences(refs, tpl)
	if formatted == nil {
		formatted = []string{}
	}

	if humanOutput {
		for i, line := range formatted {
			fmt.Printf("%d. %s\n", i+1, line)
		}
		for id, ws := range warnings {
			fmt.Printf("warning: %s: missing %s\n", id, strings.Join(ws, ", "))
		}
		return nil
	}
	return outputJSON(FmtResult{Style: tpl.Name, References: formatted, Warnings: warnings})
}
