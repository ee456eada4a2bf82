package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codegraph/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with websocket progress streaming",
	Long: `Start an HTTP server. POST /api/scan begins a scan of a local
path or a GitHub repository, GET /api/export returns the latest result
and /ws streams per-file progress over a websocket.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	eng, err := newEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	srv := server.New(eng)
	return srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Port))
}
