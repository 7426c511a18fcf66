package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-question-extractor/internal/config"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file.pdf]",
		Short: "Extract the questions of one PDF",
		Long: `Extract reads one PDF, splits it into question blocks and writes the
questions in every requested format. With --separate-by-type the outputs are
split into <base>_all, <base>_text and <base>_image files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, false)

			if len(args) == 1 {
				cfg.InputPath = args[0]
			}
			if cfg.InputPath == "" {
				return errors.New("an input PDF is required (argument or --input)")
			}
			if cfg.IsDebug() {
				log.Printf("Starting with configuration: %s", cfg.String())
			}

			return newApp(cfg, cmd.OutOrStdout(), log.Default()).extract(cmd.Context(), cfg.InputPath)
		},
	}

	config.DefineFlags(cmd.Flags(), config.KeyInput)
	config.DefineFlags(cmd.Flags(), config.OutputFlags...)
	config.DefineFlags(cmd.Flags(), config.ExtractionFlags...)
	return cmd
}
