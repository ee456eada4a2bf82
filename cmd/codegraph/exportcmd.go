package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codegraph/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <path|github-url>",
	Short: "Analyze a repository and write structure.json only",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	eng, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	s, err := eng.Analyze(ctx, targetFromArg(args[0]), logEvent)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(cfg.OutDir, "structure.json")
	if err := export.WriteJSON(out, s); err != nil {
		return err
	}
	log.Printf("wrote %s", out)
	return nil
}
