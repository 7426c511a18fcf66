// Package main is the entry point for the pdf-question-extractor CLI.
package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/a3tai/pdf-question-extractor/internal/config"
	"github.com/a3tai/pdf-question-extractor/internal/pdf"
	"github.com/a3tai/pdf-question-extractor/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdf-question-extractor",
		Short: "Extract multiple-choice exam questions from PDF files",
		Long: `pdf-question-extractor reads exam dump PDFs whose questions start with a
"QUESTION NO: <n>" marker and writes the questions, their options, answers,
explanations and references to JSON, Excel, CSV, text, PDF, SQLite or YAML.

Image-based questions can be recovered with OCR when pdftoppm and tesseract
are installed. Settings come from flags, PDF_QUESTIONS_* environment
variables or a YAML config file.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "YAML config file")
	config.DefineFlags(root.PersistentFlags(), config.KeyLogLevel)

	root.AddCommand(
		newExtractCmd(),
		newBatchCmd(),
		newServeCmd(),
		newCheckCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig resolves the configuration of cmd from its flags, the
// environment and the --config file
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, err
	}
	if version != "dev" {
		cfg.Version = version
	}
	return cfg, nil
}

// setupLogging configures the standard logger. The MCP stdio transport owns
// stdout, so logs go to stderr there and are dropped unless debugging.
func setupLogging(cfg *config.Config, mcpStdio bool) {
	log.SetOutput(os.Stderr)
	if mcpStdio {
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
		return
	}
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// ocrConfig maps the OCR settings onto the OCR engine configuration
func ocrConfig(cfg *config.Config) pdf.OCRConfig {
	return pdf.OCRConfig{
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tesseract: cfg.OCR.Tesseract,
		Lang:      cfg.OCR.Lang,
		DPI:       cfg.OCR.DPI,
		PSM:       cfg.OCR.PSM,
	}
}

// pipelineFactory returns a constructor for per-document pipelines sharing
// one reader and OCR engine
func pipelineFactory(cfg *config.Config, caps pdf.Capabilities, logger *log.Logger) func() *pipeline.Pipeline {
	reader := pdf.NewReader(cfg.MaxFileSize, logger, cfg.IsDebug())
	ocr := pdf.NewOCR(ocrConfig(cfg), logger, cfg.IsDebug())
	return func() *pipeline.Pipeline {
		return pipeline.New(reader, ocr, caps, logger, cfg.IsDebug())
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
