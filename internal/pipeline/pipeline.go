package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
	"github.com/a3tai/pdf-question-extractor/internal/pdf"
	"github.com/a3tai/pdf-question-extractor/internal/question"
)

const (
	// minExtractedText is the number of non-space characters below which the
	// extraction most likely failed
	minExtractedText = 50

	// previewLength is the number of characters shown when no questions are found
	previewLength = 500
)

// TextSource extracts the text layer of a PDF
type TextSource interface {
	ExtractDocument(path string) (*pdf.Document, error)
}

// ImageTextSource extracts text from the rendered pages of a PDF.
// It returns "" on any failure.
type ImageTextSource interface {
	ImagesToText(ctx context.Context, path string) string
}

// Pipeline drives text acquisition and question parsing for one document at a time
type Pipeline struct {
	source    TextSource
	ocr       ImageTextSource
	caps      pdf.Capabilities
	assembler *question.Assembler
	logger    *log.Logger
	debug     bool

	session *Session
}

// New creates a pipeline. ocr may be nil, in which case OCR requests are
// ignored; caps decides whether OCR is attempted at all. A nil logger uses
// the standard logger.
func New(source TextSource, ocr ImageTextSource, caps pdf.Capabilities, logger *log.Logger, debug bool) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		source:    source,
		ocr:       ocr,
		caps:      caps,
		assembler: question.NewAssembler(logger, debug),
		logger:    logger,
		debug:     debug,
	}
}

// Process extracts the questions of the PDF at path. Document level failures
// are logged and yield an empty result; they are available from Errors.
// A panic in a collaborator is reported as an unreadable document.
func (p *Pipeline) Process(ctx context.Context, path string, useOCR bool) (records []question.Record) {
	session := NewSession(path)
	p.session = session

	defer func() {
		if rec := recover(); rec != nil {
			err := exerrors.New(exerrors.ErrorTypeUnreadableDocument, "panic while processing document").
				WithFile(path).
				WithContext(fmt.Sprint(rec))
			session.errors.Add(err)
			session.records = nil
			p.logger.Printf("Error reading PDF: %v", err)
			records = []question.Record{}
		}
	}()

	if p.debug {
		p.logger.Printf("Session %s: processing %s (ocr=%t)", session.ID, path, useOCR)
	}

	doc, err := p.source.ExtractDocument(path)
	if err != nil {
		session.errors.Add(asExtractionError(err, path))
		p.logger.Printf("Error reading PDF: %v", err)
		return session.Records()
	}
	for _, pageErr := range doc.PageErrors {
		session.errors.Add(pageErr)
	}

	text := doc.Text()
	switch {
	case useOCR && p.caps.OCR && p.ocr != nil:
		if ocrText := p.ocr.ImagesToText(ctx, path); ocrText != "" {
			text += "\n" + ocrText
		}
	case useOCR:
		p.logger.Printf("OCR libraries not available. Skipping OCR extraction.")
	case doc.ImageCount > 0 && p.debug:
		p.logger.Printf("%s contains %d image(s); image-based questions may need OCR", path, doc.ImageCount)
	}

	if n := countNonSpace(text); n < minExtractedText {
		p.logger.Printf("Warning: very little text extracted from %s (%d characters). "+
			"The PDF may be scanned, encrypted or the path may be wrong.", path, n)
	}

	p.parse(session, text)
	return session.Records()
}

// ProcessText parses already extracted text into a new session
func (p *Pipeline) ProcessText(text string) []question.Record {
	session := NewSession("")
	p.session = session
	p.parse(session, text)
	return session.Records()
}

func (p *Pipeline) parse(session *Session, text string) {
	for _, result := range p.assembler.AssembleAll(question.Segment(text)) {
		if !result.OK() {
			session.errors.Add(asExtractionError(result.Err, session.Source))
			continue
		}
		session.add(result.Record)
	}

	if session.Len() == 0 && strings.TrimSpace(text) != "" && p.debug {
		p.logger.Printf("No questions found. First %d characters of extracted text:\n%s", previewLength, preview(text, previewLength))
	}
}

// Session returns the session of the last run, or nil before the first run
func (p *Pipeline) Session() *Session {
	return p.session
}

// Records returns the records of the last run
func (p *Pipeline) Records() []question.Record {
	if p.session == nil {
		return nil
	}
	return p.session.Records()
}

// ByType returns the records of the last run with the given type
func (p *Pipeline) ByType(t question.Type) []question.Record {
	if p.session == nil {
		return nil
	}
	return p.session.ByType(t)
}

// Summary counts the records of the last run by type
func (p *Pipeline) Summary() question.Summary {
	if p.session == nil {
		return question.Summary{}
	}
	return p.session.Summary()
}

// Errors returns the failures of the last run
func (p *Pipeline) Errors() *exerrors.ErrorCollection {
	if p.session == nil {
		return exerrors.NewErrorCollection("")
	}
	return p.session.Errors()
}

func asExtractionError(err error, path string) *exerrors.ExtractionError {
	var ee *exerrors.ExtractionError
	if stderrors.As(err, &ee) {
		return ee
	}
	return exerrors.Wrap(exerrors.ErrorTypeUnreadableDocument, "failed to read document", err).WithFile(path)
}

func countNonSpace(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// preview returns at most n runes of text
func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
