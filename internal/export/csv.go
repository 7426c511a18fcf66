package export

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// utf8BOM lets spreadsheet applications detect the encoding
const utf8BOM = "\ufeff"

// CSVWriter writes the tabular columns as delimited text. Every field is
// quoted and rows end with CRLF.
type CSVWriter struct{}

// NewCSVWriter creates a CSV writer
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

func (w *CSVWriter) Format() string    { return "csv" }
func (w *CSVWriter) Extension() string { return ".csv" }

// WriteFile writes records to path
func (w *CSVWriter) WriteFile(path string, records []question.Record, _ question.Filter, _ time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the BOM, the header and one row per record to out
func (w *CSVWriter) Write(out io.Writer, records []question.Record) error {
	bw := bufio.NewWriter(out)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	if err := writeCSVRow(bw, Columns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writeCSVRow(bw, Row(rec)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeCSVRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quoteCSV(field)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

// quoteCSV wraps a field in double quotes, doubling embedded quotes
func quoteCSV(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
