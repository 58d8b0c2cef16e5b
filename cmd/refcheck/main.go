// Package main provides the refcheck CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/config"
	"github.com/citelab/refcheck/internal/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verboseOutput enables debug logging on stderr
var verboseOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refcheck",
	Short: "Citation checker for academic manuscripts",
	Long: `refcheck reconciles in-text citations with reference lists in
academic manuscripts (.docx and .pdf).

It detects citation style, matches citations against references,
validates the result (missing, uncited, duplicate, incomplete,
retracted), resolves DOIs through CrossRef, and reformats reference
lists into standard styles. All commands output JSON by default for
easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotenv()
		logger.SetVerbose(verboseOutput)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verboseOutput, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.Version = Version
}
