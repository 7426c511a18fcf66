package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-question-extractor/internal/config"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [files.pdf...]",
		Short: "Extract the questions of many PDFs concurrently",
		Long: `Batch processes the given PDFs, or every PDF below --dir when none are
given. Each document is written under its own file name; documents that
cannot be read or contain no questions are reported at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg, false)

			a := newApp(cfg, cmd.OutOrStdout(), log.Default())
			paths, err := a.batchPaths(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no PDF files found in %s", cfg.Directory)
			}

			result, err := a.batch(cmd.Context(), paths)
			if err != nil {
				return err
			}
			if len(result.Successful) == 0 {
				return fmt.Errorf("none of the %d file(s) produced questions", len(paths))
			}
			return nil
		},
	}

	config.DefineFlags(cmd.Flags(), config.KeyDir, config.KeyWorkers)
	config.DefineFlags(cmd.Flags(), config.OutputFlags...)
	config.DefineFlags(cmd.Flags(), config.ExtractionFlags...)
	return cmd
}
