package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// Failure reasons reported by Batch.Run
const (
	ReasonFileNotFound     = "file not found"
	ReasonNoQuestionsFound = "no questions found"
)

// DocumentResult is a document that produced questions
type DocumentResult struct {
	Path    string           `json:"path"`
	Summary question.Summary `json:"summary"`
}

// DocumentFailure is a document that produced nothing, with the reason
type DocumentFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// BatchResult aggregates a batch run. Entries keep the input order.
type BatchResult struct {
	Successful     []DocumentResult  `json:"successful"`
	Failed         []DocumentFailure `json:"failed"`
	TotalQuestions int               `json:"total_questions"`
}

// DocumentHandler is called once per document that produced questions
type DocumentHandler func(ctx context.Context, path string, records []question.Record) error

// Batch processes many documents concurrently, one Pipeline per document
type Batch struct {
	newPipeline func() *Pipeline
	workers     int
	useOCR      bool
	onDocument  DocumentHandler
	logger      *log.Logger
}

// NewBatch creates a batch processor. newPipeline must return a fresh
// pipeline on every call. workers <= 0 uses the number of CPUs.
func NewBatch(newPipeline func() *Pipeline, workers int, useOCR bool, logger *log.Logger) *Batch {
	if logger == nil {
		logger = log.Default()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Batch{
		newPipeline: newPipeline,
		workers:     workers,
		useOCR:      useOCR,
		logger:      logger,
	}
}

// OnDocument sets the handler run for every document with questions
func (b *Batch) OnDocument(h DocumentHandler) *Batch {
	b.onDocument = h
	return b
}

// outcome is the result slot of one input document
type outcome struct {
	success *DocumentResult
	failure *DocumentFailure
}

// Run processes paths with at most workers documents in flight. It only
// returns an error when ctx is canceled; per-document problems are reported
// in BatchResult.Failed.
func (b *Batch) Run(ctx context.Context, paths []string) (BatchResult, error) {
	outcomes := make([]outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = b.processOne(gctx, path)
			return nil
		})
	}
	err := g.Wait()

	var result BatchResult
	for _, o := range outcomes {
		switch {
		case o.success != nil:
			result.Successful = append(result.Successful, *o.success)
			result.TotalQuestions += o.success.Summary.Total
		case o.failure != nil:
			result.Failed = append(result.Failed, *o.failure)
		}
	}
	if err != nil {
		return result, fmt.Errorf("batch canceled: %w", err)
	}
	return result, nil
}

func (b *Batch) processOne(ctx context.Context, path string) outcome {
	b.logger.Printf("Processing: %s", path)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		b.logger.Printf("File not found: %s", path)
		return outcome{failure: &DocumentFailure{Path: path, Reason: ReasonFileNotFound}}
	}

	p := b.newPipeline()
	records := p.Process(ctx, path, b.useOCR)
	if len(records) == 0 {
		reason := ReasonNoQuestionsFound
		for _, e := range p.Errors().Errors {
			if e.IsDocumentLevel() {
				reason = e.Error()
				break
			}
		}
		b.logger.Printf("No questions found in %s", path)
		return outcome{failure: &DocumentFailure{Path: path, Reason: reason}}
	}

	if b.onDocument != nil {
		if err := b.onDocument(ctx, path, records); err != nil {
			b.logger.Printf("Error handling %s: %v", path, err)
			return outcome{failure: &DocumentFailure{Path: path, Reason: err.Error()}}
		}
	}

	summary := question.Summarize(records)
	b.logger.Printf("Success: %d questions extracted from %s", summary.Total, path)
	return outcome{success: &DocumentResult{Path: path, Summary: summary}}
}
