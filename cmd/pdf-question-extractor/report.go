package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
	"github.com/a3tai/pdf-question-extractor/internal/export"
	"github.com/a3tai/pdf-question-extractor/internal/pipeline"
	"github.com/a3tai/pdf-question-extractor/internal/question"
)

const (
	ruleWidth          = 60
	sampleStatementLen = 200
	sampleOptionLen    = 100
)

var (
	rule    = strings.Repeat("=", ruleWidth)
	numbers = message.NewPrinter(language.English)
)

func printRule(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func printBanner(w io.Writer, title string, rows [][2]string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
	for _, row := range rows {
		fmt.Fprintf(w, "%s: %s\n", row[0], row[1])
	}
	fmt.Fprintf(w, "%s\n\n", rule)
}

func printNoQuestions(w io.Writer, errs *exerrors.ErrorCollection) {
	printRule(w, "ERROR: No questions were extracted!")
	if errs != nil && errs.Count() > 0 {
		fmt.Fprintf(w, "\n%s\n", errs.Summary())
	}
	fmt.Fprintln(w, "\nPossible solutions:")
	fmt.Fprintln(w, "1. If the PDF is image-based, run with --ocr")
	fmt.Fprintln(w, "2. Check that questions start with a 'QUESTION NO: <n>' marker")
	fmt.Fprintln(w, "3. Try opening the PDF manually to verify it's readable")
	fmt.Fprintln(w, "4. Run with --loglevel=debug for more details")
}

func printSummary(w io.Writer, s question.Summary, errs *exerrors.ErrorCollection) {
	printRule(w, "EXTRACTION SUMMARY")
	fmt.Fprintf(w, "Total questions extracted: %d\n", s.Total)
	fmt.Fprintf(w, "Text-based questions: %d\n", s.TextBased)
	fmt.Fprintf(w, "Image-based questions: %d\n", s.ImageBased)
	if errs != nil && errs.Count() > 0 {
		fmt.Fprintf(w, "Skipped: %s\n", errs.Summary())
	}
	fmt.Fprintln(w, rule)
}

func printSample(w io.Writer, r question.Record) {
	printRule(w, "SAMPLE QUESTION")
	fmt.Fprintf(w, "Question No: %s\n", r.QuestionNo())
	fmt.Fprintf(w, "Type: %s\n", r.Type())
	fmt.Fprintf(w, "\nStatement:\n%s\n\n", truncate(r.Statement(), sampleStatementLen))
	for _, opt := range r.Options() {
		fmt.Fprintf(w, "Option %s: %s\n", opt.Key, truncate(opt.Text, sampleOptionLen))
	}
	answer := r.CorrectAnswer()
	if answer == "" {
		answer = "(not detected)"
	}
	fmt.Fprintf(w, "\nCorrect Answer: %s\n", answer)
	fmt.Fprintf(w, "%s\n\n", rule)
}

func printOutputFiles(w io.Writer, files []export.OutputFile) {
	fmt.Fprintln(w, "\nOutput files created:")
	if len(files) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, f := range files {
		fmt.Fprintf(w, "  - %s (%s bytes)\n", f.Path, numbers.Sprintf("%d", f.Size))
	}
}

func printBatchSummary(w io.Writer, total int, result pipeline.BatchResult) {
	printRule(w, "BATCH PROCESSING SUMMARY")
	fmt.Fprintf(w, "Total files processed: %d\n", total)
	fmt.Fprintf(w, "Successful: %d\n", len(result.Successful))
	fmt.Fprintf(w, "Failed: %d\n", len(result.Failed))
	fmt.Fprintf(w, "Total questions extracted: %d\n", result.TotalQuestions)

	if len(result.Successful) > 0 {
		fmt.Fprintln(w, "\n[OK] Successfully processed files:")
		for _, d := range result.Successful {
			fmt.Fprintf(w, "  - %s: %d questions (%d text, %d image)\n",
				d.Path, d.Summary.Total, d.Summary.TextBased, d.Summary.ImageBased)
		}
	}
	if len(result.Failed) > 0 {
		fmt.Fprintln(w, "\n[FAILED] Failed files:")
		for _, d := range result.Failed {
			fmt.Fprintf(w, "  - %s: %s\n", d.Path, d.Reason)
		}
	}
	fmt.Fprintf(w, "%s\n\n", rule)
}

// truncate shortens s to n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
