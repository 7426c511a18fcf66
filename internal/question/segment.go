package question

import (
	"strings"
	"unicode"
)

// QuestionMarker introduces every question in the source text
const QuestionMarker = "QUESTION NO:"

// Block is the raw text belonging to one question
type Block struct {
	QuestionNo string
	Content    string
}

// marker is one located "QUESTION NO: <n>" occurrence
type marker struct {
	start int // index of the 'Q'
	end   int // index just past the last digit
	no    string
}

// Segment splits raw extracted text into question blocks in source order.
// Text before the first marker is discarded. The raw text must not be
// sanitized beforehand since blocks keep the original line structure.
func Segment(raw string) []Block {
	markers := findMarkers(raw)
	if len(markers) == 0 {
		return nil
	}

	blocks := make([]Block, 0, len(markers))
	for i, m := range markers {
		end := len(raw)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		blocks = append(blocks, Block{
			QuestionNo: m.no,
			Content:    raw[m.end:end],
		})
	}
	return blocks
}

// findMarkers scans left to right for the question marker followed by optional
// whitespace and a decimal number. A marker without a number is ignored.
func findMarkers(raw string) []marker {
	var markers []marker
	offset := 0
	for {
		idx := strings.Index(raw[offset:], QuestionMarker)
		if idx < 0 {
			break
		}
		start := offset + idx
		pos := start + len(QuestionMarker)
		pos = skipSpace(raw, pos)

		digits := pos
		for digits < len(raw) && raw[digits] >= '0' && raw[digits] <= '9' {
			digits++
		}

		if digits > pos {
			markers = append(markers, marker{start: start, end: digits, no: raw[pos:digits]})
			offset = digits
		} else {
			offset = start + len(QuestionMarker)
		}
	}
	return markers
}

func skipSpace(s string, pos int) int {
	for pos < len(s) {
		r := rune(s[pos])
		if r >= 0x80 || !unicode.IsSpace(r) {
			break
		}
		pos++
	}
	return pos
}
