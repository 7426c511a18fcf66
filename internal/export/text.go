package export

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// separatorRule ends every question block
var separatorRule = strings.Repeat("-", 72)

// DocumentLines renders records as a human readable document, one block per
// record: header, statement, options with the correct one marked, answer,
// explanation, reference and a separator rule
func DocumentLines(records []question.Record, filter question.Filter, extracted time.Time) []string {
	summary := question.Summarize(records)
	lines := []string{
		"Extracted Questions",
		fmt.Sprintf("Filter: %s | Total: %d | Text-based: %d | Image-based: %d",
			filter, summary.Total, summary.TextBased, summary.ImageBased),
		"Extracted: " + extracted.Format(DateLayout),
		strings.Repeat("=", 72),
		"",
	}

	for _, r := range records {
		lines = append(lines, fmt.Sprintf("Question %s [%s]", r.QuestionNo(), r.Type()))
		lines = append(lines, strings.Split(r.Statement(), "\n")...)
		lines = append(lines, "")
		for _, opt := range r.Options() {
			marker := "  "
			if opt.Key == r.CorrectAnswer() {
				marker = "* "
			}
			optLines := strings.Split(opt.Text, "\n")
			lines = append(lines, fmt.Sprintf("%s%s. %s", marker, opt.Key, optLines[0]))
			for _, cont := range optLines[1:] {
				lines = append(lines, "     "+cont)
			}
		}
		lines = append(lines, "")

		answer := r.CorrectAnswer()
		if answer == "" {
			answer = "(not detected)"
		}
		lines = append(lines, "Answer: "+answer)
		if r.Explanation() != "" {
			lines = append(lines, "Explanation: "+r.Explanation())
		}
		if r.Reference() != "" {
			lines = append(lines, "Reference: "+r.Reference())
		}
		lines = append(lines, separatorRule, "")
	}
	return lines
}

// wrapLine splits line into pieces of at most width runes, breaking at
// spaces where possible. Continuation lines keep the leading indentation.
func wrapLine(line string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	if len(indent) >= width/2 {
		indent = ""
	}
	var out []string
	current := ""
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > width-len(indent) {
			runes := []rune(word)
			cut := width - len(indent) - utf8.RuneCountInString(current)
			if current != "" {
				cut-- // separating space
			}
			if cut <= 0 {
				out = append(out, indent+current)
				current = ""
				continue
			}
			if current == "" {
				current = string(runes[:cut])
			} else {
				current += " " + string(runes[:cut])
			}
			out = append(out, indent+current)
			current = ""
			word = string(runes[cut:])
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(indent+current+" "+word) <= width:
			current += " " + word
		default:
			out = append(out, indent+current)
			current = word
		}
	}
	if current != "" || len(out) == 0 {
		out = append(out, indent+current)
	}
	return out
}

// TextWriter writes the document rendering as plain UTF-8 text
type TextWriter struct{}

// NewTextWriter creates a text document writer
func NewTextWriter() *TextWriter {
	return &TextWriter{}
}

func (w *TextWriter) Format() string    { return "txt" }
func (w *TextWriter) Extension() string { return ".txt" }

// WriteFile writes the rendered document to path
func (w *TextWriter) WriteFile(path string, records []question.Record, filter question.Filter, extracted time.Time) error {
	content := strings.Join(DocumentLines(records, filter, extracted), "\n") + "\n"
	return os.WriteFile(path, []byte(content), 0o644)
}
