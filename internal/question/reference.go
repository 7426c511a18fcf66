package question

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// referenceMatch is a citation located inside a raw explanation.
// start and end delimit the span removed from the explanation.
type referenceMatch struct {
	text  string
	start int
	end   int
}

// referencePattern is one named citation search, tried in priority order
type referencePattern struct {
	name string
	find func(raw string) (referenceMatch, bool)
}

var (
	referencePrefixRe  = regexp.MustCompile(`\b(?:References?|REFERENCES?)\s*[:=]\s*`)
	sourcePrefixRe     = regexp.MustCompile(`\b(?:Sources?|SOURCES?|Ref\.?|REF\.?|Citations?|CITATIONS?)\s*[:=]\s*`)
	domainPageRe       = regexp.MustCompile(`\bDomain\s+\d+(?:\.\d+)*,?\s+[Pp]age\s+\d+`)
	parenCitationRe    = regexp.MustCompile(`\(([^()]*?\b(?:Study Guide|Edition|Chapter|Page)\b[^()]*)\)`)
	clauseKeywordRe    = regexp.MustCompile(`\b(?:Study Guide|Exam|Edition|Objectives)\b`)
	spaceBeforePunctRe = regexp.MustCompile(`\s+([.,;:!?])`)
)

// referencePatterns lists the citation searches from most to least specific
var referencePatterns = []referencePattern{
	{name: "reference_prefix", find: prefixedCitation(referencePrefixRe)},
	{name: "source_prefix", find: prefixedCitation(sourcePrefixRe)},
	{name: "domain_page", find: findDomainPage},
	{name: "parenthesized", find: findParenthesized},
	{name: "capitalized_clause", find: findCapitalizedClause},
}

// ExtractReference looks for a citation in the raw explanation text.
// The first pattern that matches wins; its span is cut out of the explanation,
// which is returned whitespace-collapsed. Without a match the reference is ""
// and the explanation is only collapsed.
func ExtractReference(rawExplanation string) (reference, explanation string) {
	for _, p := range referencePatterns {
		m, ok := p.find(rawExplanation)
		if !ok {
			continue
		}

		reference = CollapseWhitespace(m.text)
		explanation = tidyExplanation(rawExplanation[:m.start] + " " + rawExplanation[m.end:])
		// tidying can join text back into another copy of the reference
		for reference != "" && strings.Contains(explanation, reference) {
			explanation = tidyExplanation(strings.ReplaceAll(explanation, reference, ""))
		}
		return reference, explanation
	}

	return "", CollapseWhitespace(rawExplanation)
}

// tidyExplanation collapses whitespace and drops the spaces left in front of
// punctuation by a removed citation
func tidyExplanation(text string) string {
	return spaceBeforePunctRe.ReplaceAllString(CollapseWhitespace(text), "$1")
}

// prefixedCitation captures the text after a "Label:" / "Label =" prefix
// through the end of the sentence
func prefixedCitation(prefix *regexp.Regexp) func(string) (referenceMatch, bool) {
	return func(raw string) (referenceMatch, bool) {
		for _, loc := range prefix.FindAllStringIndex(raw, -1) {
			textEnd, spanEnd := sentenceEnd(raw, loc[1])
			text := trimCitation(raw[loc[1]:textEnd])
			if text == "" {
				continue
			}
			return referenceMatch{text: text, start: loc[0], end: spanEnd}, true
		}
		return referenceMatch{}, false
	}
}

// findDomainPage captures "Domain X.Y, page N <text>" through the end of the sentence
func findDomainPage(raw string) (referenceMatch, bool) {
	loc := domainPageRe.FindStringIndex(raw)
	if loc == nil {
		return referenceMatch{}, false
	}
	textEnd, spanEnd := sentenceEnd(raw, loc[1])
	return referenceMatch{
		text:  trimCitation(raw[loc[0]:textEnd]),
		start: loc[0],
		end:   spanEnd,
	}, true
}

// findParenthesized captures the inside of a parenthesized citation
func findParenthesized(raw string) (referenceMatch, bool) {
	loc := parenCitationRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return referenceMatch{}, false
	}
	text := trimCitation(raw[loc[2]:loc[3]])
	if text == "" {
		return referenceMatch{}, false
	}
	return referenceMatch{text: text, start: loc[0], end: loc[1]}, true
}

// findCapitalizedClause captures a title-like run of capitalized words that
// contains one of the citation keywords. The title must close its sentence.
func findCapitalizedClause(raw string) (referenceMatch, bool) {
	for _, loc := range clauseKeywordRe.FindAllStringIndex(raw, -1) {
		start := clauseStart(raw, loc[0])
		if start == loc[0] {
			// a bare keyword is not a title
			continue
		}
		textEnd, spanEnd, ok := clauseEnd(raw, loc[1])
		if !ok {
			continue
		}
		text := trimCitation(raw[start:textEnd])
		if text == "" {
			continue
		}
		return referenceMatch{text: text, start: start, end: spanEnd}, true
	}
	return referenceMatch{}, false
}

// clauseStart walks back from pos over the preceding capitalized words of the
// same sentence and returns the index of the first one
func clauseStart(raw string, pos int) int {
	start := pos
	i := pos
	for {
		// skip the whitespace before the previous word
		j := i
		for j > 0 {
			r, size := utf8.DecodeLastRuneInString(raw[:j])
			if !unicode.IsSpace(r) {
				break
			}
			j -= size
		}
		if j == 0 || j == i {
			return start
		}

		// find the beginning of the previous word
		k := j
		for k > 0 {
			r, size := utf8.DecodeLastRuneInString(raw[:k])
			if unicode.IsSpace(r) {
				break
			}
			k -= size
		}
		word := raw[k:j]
		if strings.HasSuffix(word, ".") || !isTitleWord(word) {
			return start
		}
		start = k
		i = k
	}
}

// clauseEnd walks forward from pos over title words and connectors. ok is
// false when a lowercase word or stray punctuation shows up before the end of
// the sentence.
func clauseEnd(raw string, pos int) (textEnd, spanEnd int, ok bool) {
	i := pos
	for {
		k := i
		for k < len(raw) && strings.IndexByte(",;:", raw[k]) >= 0 {
			k++
		}
		if k < len(raw) && raw[k] == '.' && (k+1 == len(raw) || isASCIISpace(raw[k+1])) {
			return i, k + 1, true
		}

		j := k
		for j < len(raw) && isASCIISpace(raw[j]) {
			j++
		}
		if j == len(raw) || strings.Count(raw[k:j], "\n") >= 2 {
			return i, k, true
		}
		if j == k {
			return 0, 0, false
		}

		w := j
		for w < len(raw) && !isASCIISpace(raw[w]) {
			w++
		}
		word := strings.TrimRight(raw[j:w], ".,;:")
		if word == "" || !(isTitleWord(word) || titleConnectors[word]) {
			return 0, 0, false
		}
		i = j + len(word)
	}
}

// titleConnectors are the lowercase words allowed inside a title
var titleConnectors = map[string]bool{
	"of": true, "and": true, "for": true, "the": true, "in": true, "on": true,
}

// isTitleWord reports whether a word can be part of a capitalized clause
func isTitleWord(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || word == "+" || word == "&" || word == "-"
}

// sentenceEnd finds the end of the sentence that continues at pos. textEnd
// excludes the terminating period, spanEnd includes it. A period only ends a
// sentence when followed by whitespace or the end of text, so "1.2" and URLs
// stay intact. A blank line also ends the sentence.
func sentenceEnd(raw string, pos int) (textEnd, spanEnd int) {
	for i := pos; i < len(raw); i++ {
		switch raw[i] {
		case '.':
			if i+1 == len(raw) || isASCIISpace(raw[i+1]) {
				return i, i + 1
			}
		case '\n':
			if rest := strings.TrimLeft(raw[i+1:], " \t\r"); strings.HasPrefix(rest, "\n") {
				return i, i
			}
		}
	}
	return len(raw), len(raw)
}

func trimCitation(text string) string {
	return strings.TrimRight(strings.TrimSpace(text), " \t\n,;:")
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
