package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codegraph/internal/config"
)

var (
	providerFlag   string
	modelFlag      string
	outDirFlag     string
	timeoutFlag    time.Duration
	extensionsFlag []string
)

var rootCmd = &cobra.Command{
	Use:   "codegraph",
	Short: "Repository call and dependency graph builder",
	Long: `codegraph indexes a source repository with a language model,
resolves cross-file function calls into a dependency graph and exports
the result as JSON, PlantUML and Mermaid diagrams.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "LLM provider (gemini, groq, fake)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model name for the selected provider")
	rootCmd.PersistentFlags().StringVar(&outDirFlag, "out", "", "output directory")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "oracle-timeout", 0, "timeout per LLM consultation")
	rootCmd.PersistentFlags().StringSliceVar(&extensionsFlag, "extensions", nil,
		"file extensions to ingest (e.g. .py,.js); defaults to the configured set")
}

// normalizeExtensions lowercases extensions and prepends the missing dot so
// "--extensions py,.JS" matches files the same way the configured defaults do.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// loadConfig resolves configuration and applies any command-line
// overrides. Flags win over environment, config file and defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = providerFlag
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = modelFlag
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = outDirFlag
	}
	if cmd.Flags().Changed("oracle-timeout") {
		cfg.OracleTimeout = timeoutFlag
	}
	if cmd.Flags().Changed("extensions") {
		cfg.Extensions = normalizeExtensions(extensionsFlag)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
