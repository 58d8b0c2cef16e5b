package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/citelab/refcheck/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set global configuration values",
	Long: `Get or set values in the global configuration file
(` + config.GlobalConfigPath() + `).

Keys:
  mailto         Contact address sent to CrossRef (polite pool)
  rate-limit     CrossRef requests per second (0 = client default)
  web-search     Default for CrossRef suggestions on unmatched citations
  default-style  Citation style used when --style is not given`,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := mustGlobalConfig()
	if humanOutput {
		fmt.Printf("mailto:        %s\n", cfg.Mailto)
		fmt.Printf("rate-limit:    %s\n", formatRate(cfg.RateLimit))
		fmt.Printf("web-search:    %t\n", cfg.WebSearch)
		fmt.Printf("default-style: %s\n", cfg.DefaultStyle)
		return nil
	}
	return outputJSON(cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := mustGlobalConfig()
	key := normalizeKey(args[0])

	var value string
	switch key {
	case "mailto":
		value = cfg.Mailto
	case "rate-limit":
		value = formatRate(cfg.RateLimit)
	case "web-search":
		value = strconv.FormatBool(cfg.WebSearch)
	case "default-style":
		value = cfg.DefaultStyle
	default:
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	if humanOutput {
		fmt.Println(value)
		return nil
	}
	return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg := mustGlobalConfig()
	key := normalizeKey(args[0])
	value := args[1]

	switch key {
	case "mailto":
		cfg.Mailto = value
	case "rate-limit":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate < 0 {
			exitWithError(ExitError, "rate-limit must be a non-negative number, got %q", value)
		}
		cfg.RateLimit = rate
	case "web-search":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			exitWithError(ExitError, "web-search must be true or false, got %q", value)
		}
		cfg.WebSearch = enabled
	case "default-style":
		cfg.DefaultStyle = strings.ToLower(value)
	default:
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}

	if err := config.SaveGlobalConfig(cfg); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}

func formatRate(rate float64) string {
	if rate == 0 {
		return "default"
	}
	return strconv.FormatFloat(rate, 'g', -1, 64)
}

// normalizeKey converts key formats (rate_limit, RateLimit) to kebab case.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
