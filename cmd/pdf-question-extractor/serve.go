package main

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-question-extractor/internal/config"
	"github.com/a3tai/pdf-question-extractor/internal/mcp"
	"github.com/a3tai/pdf-question-extractor/internal/pdf"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Model Context Protocol server",
		Long: `Serve exposes question extraction as MCP tools over standard I/O, or over
HTTP with server-sent events when --mode=server. Tool paths are confined
to --dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, cfg.IsStdioMode())

			if cfg.IsDebug() {
				log.Printf("Starting with configuration: %s", cfg.String())
			}

			logger := log.Default()
			caps := pdf.DetectCapabilities(ocrConfig(cfg))
			server, err := mcp.NewServer(cfg, pipelineFactory(cfg, caps, logger), caps, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()

			if err := server.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Server error: %v", err)
				return err
			}
			if cfg.IsServerMode() {
				log.Println("Server stopped successfully")
			}
			return nil
		},
	}

	config.DefineFlags(cmd.Flags(), config.ServerFlags...)
	config.DefineFlags(cmd.Flags(), config.ExtractionFlags...)
	return cmd
}
