package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// Page geometry for A4 portrait in points, rendered in Courier 9pt
const (
	pdfPageHeight   = 842
	pdfMargin       = 40
	pdfFontName     = "Courier"
	pdfFontSize     = 9
	pdfLeading      = 11
	pdfLineWidth    = 95
	pdfLinesPerPage = (pdfPageHeight - 2*pdfMargin) / pdfLeading
)

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfText struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  pdfFont    `json:"font"`
}

type pdfContent struct {
	Text []pdfText `json:"text"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

// pdfDescription is the JSON page description consumed by pdfcpu's create command
type pdfDescription struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

// PDFWriter renders the text document into a paged PDF using pdfcpu
type PDFWriter struct {
	config *model.Configuration
}

// NewPDFWriter creates a PDF document writer
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{config: model.NewDefaultConfiguration()}
}

func (w *PDFWriter) Format() string    { return "pdf" }
func (w *PDFWriter) Extension() string { return ".pdf" }

// WriteFile lays out the document lines and writes the PDF to path
func (w *PDFWriter) WriteFile(path string, records []question.Record, filter question.Filter, extracted time.Time) error {
	desc := layoutPages(DocumentLines(records, filter, extracted))

	spec, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("failed to encode page description: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := api.Create(nil, bytes.NewReader(spec), f, w.config); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to create PDF: %w", err)
	}
	return f.Close()
}

// layoutPages wraps lines to the page width and distributes them over pages
func layoutPages(lines []string) pdfDescription {
	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, wrapLine(toWinAnsi(line), pdfLineWidth)...)
	}

	desc := pdfDescription{
		Paper:  "A4P",
		Origin: "LowerLeft",
		Pages:  make(map[string]pdfPage),
	}

	pageNo := 0
	for start := 0; start < len(wrapped) || pageNo == 0; start += pdfLinesPerPage {
		pageNo++
		end := min(start+pdfLinesPerPage, len(wrapped))

		var texts []pdfText
		for i, line := range wrapped[start:end] {
			if line == "" {
				continue
			}
			y := float64(pdfPageHeight - pdfMargin - (i+1)*pdfLeading)
			texts = append(texts, pdfText{
				Value: line,
				Pos:   [2]float64{pdfMargin, y},
				Font:  pdfFont{Name: pdfFontName, Size: pdfFontSize},
			})
		}
		desc.Pages[strconv.Itoa(pageNo)] = pdfPage{Content: pdfContent{Text: texts}}
	}
	return desc
}

// toWinAnsi replaces runes the standard Type1 fonts cannot encode
func toWinAnsi(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r > 0xFF || (r < 0x20 && r != '\t') {
			out[i] = '?'
		}
	}
	return string(out)
}
