package question

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sanitize cleans a text field extracted from a PDF.
// Line endings become LF, control characters other than newline and tab are
// removed, invalid UTF-8 is dropped, the text is NFC normalized and trimmed.
// Sanitize(Sanitize(s)) == Sanitize(s) for every s.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)

	return strings.TrimSpace(norm.NFC.String(text))
}

// CollapseWhitespace replaces every run of whitespace, newlines included, with
// a single space and trims the result
func CollapseWhitespace(text string) string {
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}
