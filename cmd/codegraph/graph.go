package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codegraph/internal/export"
	"codegraph/internal/graphs"
	"codegraph/internal/scan"
)

var (
	graphActivity bool
	graphServer   string
)

var graphCmd = &cobra.Command{
	Use:   "graph <path|github-url>",
	Short: "Analyze a repository and write the graph with diagrams",
	Long: `Scan a local directory or a GitHub repository, resolve every
cross-file call and write structure.json, a PlantUML class diagram and
a Mermaid flowchart into the output directory.

Examples:
  codegraph graph ./my-project
  codegraph graph https://github.com/owner/repo --activity`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().BoolVar(&graphActivity, "activity", false, "also generate a PlantUML activity diagram (extra LLM call)")
	graphCmd.Flags().StringVar(&graphServer, "plantuml-server", graphs.DefaultServer, "PlantUML server for rendered diagram URLs")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
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
	if err := writeOutputs(ctx, eng, cfg.OutDir, s); err != nil {
		return err
	}
	log.Printf("wrote %s", filepath.Join(cfg.OutDir, "structure.json"))
	return nil
}

func writeOutputs(ctx context.Context, eng *engine, outDir string, s export.Structure) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := export.WriteJSON(filepath.Join(outDir, "structure.json"), s); err != nil {
		return err
	}

	class := graphs.ClassDiagram(s)
	if err := os.WriteFile(filepath.Join(outDir, "classes.puml"), []byte(class), 0o644); err != nil {
		return err
	}
	if url, err := graphs.ServerURL(graphServer, class); err == nil {
		log.Printf("class diagram: %s", url)
	}

	mermaid := graphs.Mermaid(s)
	if err := os.WriteFile(filepath.Join(outDir, "graph.mmd"), []byte(mermaid), 0o644); err != nil {
		return err
	}

	if graphActivity {
		activity, err := graphs.ActivityDiagram(ctx, eng.LLM(), s)
		if err != nil {
			return fmt.Errorf("activity diagram: %w", err)
		}
		if err := os.WriteFile(filepath.Join(outDir, "activity.puml"), []byte(activity), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func logEvent(evt scan.Event) {
	switch evt.Kind {
	case scan.EventSkip:
		log.Printf("skip %s: %s", evt.Path, evt.Reason)
	case scan.EventIngest:
		log.Printf("analyze %s", evt.Path)
	}
}
