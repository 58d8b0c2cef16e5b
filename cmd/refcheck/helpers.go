package main

import (
	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/config"
	"github.com/citelab/refcheck/internal/crossref"
	"github.com/citelab/refcheck/internal/docx"
	"github.com/citelab/refcheck/internal/logger"
	"github.com/citelab/refcheck/internal/process"
	"github.com/citelab/refcheck/internal/refparse"
)

// mustLoadDocument parses a manuscript or exits with a data error.
func mustLoadDocument(path string) *docx.Document {
	doc, err := process.LoadDocument(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return doc
}

// mustLoadReferences parses the reference section of a manuscript.
func mustLoadReferences(path string) []citation.Citation {
	return refparse.Parse(mustLoadDocument(path).ReferenceEntries)
}

// mustGlobalConfig loads the global config or exits with a config error.
func mustGlobalConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// newAPIClient builds a CrossRef client from the global config plus an
// optional --mailto override. A missing contact address is allowed but
// logged, since anonymous clients land in the slow pool.
func newAPIClient(mailtoOverride string) *crossref.Client {
	cfg := mustGlobalConfig()

	mailto := mailtoOverride
	if mailto == "" {
		mailto = config.Mailto()
	}
	if mailto == "" {
		logger.Warn("no contact address configured; using CrossRef's anonymous pool")
		logger.Debug("%s", config.HelpfulConfigMessage())
	}

	opts := []crossref.ClientOption{crossref.WithRateLimit(cfg.RateLimit)}
	if mailto != "" {
		opts = append(opts, crossref.WithMailto(mailto))
	}
	return crossref.NewClient(opts...)
}

// defaultStyle resolves the style name: explicit flag, then global config,
// then APA.
func defaultStyle(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg := mustGlobalConfig(); cfg.DefaultStyle != "" {
		return cfg.DefaultStyle
	}
	return "apa"
}
