package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/pdf-question-extractor/internal/config"
	"github.com/a3tai/pdf-question-extractor/internal/export"
	"github.com/a3tai/pdf-question-extractor/internal/pdf"
	"github.com/a3tai/pdf-question-extractor/internal/pipeline"
	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// errNoQuestions is returned when a single document yields nothing
var errNoQuestions = errors.New("no questions were extracted")

// app runs the extract and batch commands
type app struct {
	cfg         *config.Config
	out         io.Writer
	logger      *log.Logger
	caps        pdf.Capabilities
	newPipeline func() *pipeline.Pipeline
	exporter    *export.Exporter
}

func newApp(cfg *config.Config, out io.Writer, logger *log.Logger) *app {
	caps := pdf.DetectCapabilities(ocrConfig(cfg))
	return &app{
		cfg:         cfg,
		out:         out,
		logger:      logger,
		caps:        caps,
		newPipeline: pipelineFactory(cfg, caps, logger),
		exporter:    export.NewExporter(nil, cfg.OutputDir, logger),
	}
}

// extract processes one PDF and writes every configured output
func (a *app) extract(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(a.out, "Error: PDF file not found: %s\n", path)
		fmt.Fprintln(a.out, "Please check the file path and try again.")
		return fmt.Errorf("PDF file not found: %s", path)
	}

	printBanner(a.out, "PDF QUESTION EXTRACTOR", [][2]string{
		{"Input file", path},
		{"Output directory", a.cfg.OutputDir},
		{"Output formats", strings.Join(a.cfg.Formats, ", ")},
		{"OCR enabled", fmt.Sprint(a.cfg.UseOCR)},
		{"Separate by type", fmt.Sprint(a.cfg.SeparateByType)},
	})

	p := a.newPipeline()
	records := p.Process(ctx, path, a.cfg.UseOCR)
	if len(records) == 0 {
		printNoQuestions(a.out, p.Errors())
		return errNoQuestions
	}

	files, saveErr := a.exporter.SaveAll(records, a.cfg.BaseName, a.cfg.Formats, a.cfg.SeparateByType)

	if a.cfg.ShowSummary {
		printSummary(a.out, p.Summary(), p.Errors())
	}
	if a.cfg.ShowSample {
		printSample(a.out, records[0])
	}
	printOutputFiles(a.out, files)

	if saveErr != nil {
		return fmt.Errorf("some outputs could not be written: %w", saveErr)
	}
	printRule(a.out, "EXTRACTION COMPLETED SUCCESSFULLY!")
	return nil
}

// batch processes many PDFs, writing the outputs of each under its own base name
func (a *app) batch(ctx context.Context, paths []string) (pipeline.BatchResult, error) {
	printBanner(a.out, "BATCH PROCESSING PDFs", [][2]string{
		{"Files to process", fmt.Sprint(len(paths))},
		{"Output directory", a.cfg.OutputDir},
		{"OCR enabled", fmt.Sprint(a.cfg.UseOCR)},
		{"Workers", fmt.Sprint(a.cfg.Workers)},
	})

	b := pipeline.NewBatch(a.newPipeline, a.cfg.Workers, a.cfg.UseOCR, a.logger).
		OnDocument(func(_ context.Context, path string, records []question.Record) error {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			_, err := a.exporter.SaveAll(records, base, a.cfg.Formats, a.cfg.SeparateByType)
			return err
		})

	result, err := b.Run(ctx, paths)
	printBatchSummary(a.out, len(paths), result)
	return result, err
}

// batchPaths returns the explicit paths, or every PDF below the configured directory
func (a *app) batchPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := pdf.NewSearch(a.cfg.MaxFileSize).FindPDFs(a.cfg.Directory, "", 0)
	if err != nil {
		return nil, err
	}
	return pdf.Paths(files), nil
}
