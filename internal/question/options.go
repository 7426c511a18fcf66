package question

import "strings"

// AnswerMarker ends the option list of a question
const AnswerMarker = "ANSWER:"

// ExtractStatement returns the text before the first "A." marker.
// Without an "A." marker the whole block is the statement.
func ExtractStatement(block string) string {
	idx := strings.Index(block, optionMarker("A"))
	if idx < 0 {
		return strings.TrimSpace(block)
	}
	return strings.TrimSpace(block[:idx])
}

// ExtractOption returns the text of the option with the given letter.
// The text runs from the first "L." to the nearest of the next letter's marker,
// "ANSWER:" or the end of the block. A missing marker yields "".
func ExtractOption(block, letter string) string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return ""
	}

	open := optionMarker(letter)
	idx := strings.Index(block, open)
	if idx < 0 {
		return ""
	}
	rest := block[idx+len(open):]

	end := len(rest)
	boundaries := []string{AnswerMarker}
	if letter[0] < 'Z' {
		boundaries = append(boundaries, optionMarker(string(letter[0]+1)))
	}
	for _, b := range boundaries {
		if i := strings.Index(rest, b); i >= 0 && i < end {
			end = i
		}
	}

	return strings.TrimSpace(rest[:end])
}

// ExtractOptions returns the four option texts in A-D order
func ExtractOptions(block string) [4]string {
	var opts [4]string
	for i, letter := range Letters {
		opts[i] = ExtractOption(block, letter)
	}
	return opts
}

func optionMarker(letter string) string {
	return letter + "."
}
