package question

import (
	"strings"
	"unicode/utf8"
)

// MinTextStatementLength is the shortest statement, in characters, that is
// still treated as a text question when no image keyword is present
const MinTextStatementLength = 20

// imageIndicators are phrases that point at an embedded picture
var imageIndicators = []string{
	"image", "picture", "diagram", "figure", "screenshot",
	"shown below", "shown above", "refer to the", "see the",
	"following image", "following diagram", "following figure",
	"exhibit", "illustration",
}

// Classify labels a question as image based when the statement or options
// mention an image, or when the statement is too short to carry the question
// on its own. Everything else is a text question.
func Classify(statement, options string) Type {
	fullText := strings.ToLower(statement + " " + options)
	for _, indicator := range imageIndicators {
		if strings.Contains(fullText, indicator) {
			return TypeImage
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(statement)) < MinTextStatementLength {
		return TypeImage
	}

	return TypeText
}

// ImageIndicators returns a copy of the keywords used by Classify
func ImageIndicators() []string {
	out := make([]string, len(imageIndicators))
	copy(out, imageIndicators)
	return out
}
