package question

import "strings"

// ExplanationMarker introduces the free-text explanation of a question
const ExplanationMarker = "Explanation:"

// ExtractAnswer returns the letter following "ANSWER:" (case-insensitive),
// uppercased, or "" when no A-D letter follows any answer marker
func ExtractAnswer(block string) string {
	offset := 0
	for {
		idx := indexFold(block[offset:], AnswerMarker)
		if idx < 0 {
			return ""
		}
		pos := skipSpace(block, offset+idx+len(AnswerMarker))
		if pos < len(block) {
			switch c := block[pos]; {
			case c >= 'A' && c <= 'D':
				return string(c)
			case c >= 'a' && c <= 'd':
				return string(c - 'a' + 'A')
			}
		}
		offset += idx + len(AnswerMarker)
	}
}

// ExtractExplanation returns the raw text after "Explanation:" up to the next
// question marker or the end of the block. Whitespace is left untouched so the
// reference patterns can see sentence and line structure.
func ExtractExplanation(block string) string {
	idx := indexFold(block, ExplanationMarker)
	if idx < 0 {
		return ""
	}
	rest := block[idx+len(ExplanationMarker):]
	if end := indexFold(rest, QuestionMarker); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// indexFold is strings.Index with ASCII case folding. Byte offsets in s are
// preserved, which strings.ToLower does not guarantee for non-ASCII input.
func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
