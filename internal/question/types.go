package question

import (
	"fmt"
	"strings"
)

// Type represents the classification of a question
type Type string

const (
	TypeText  Type = "text"
	TypeImage Type = "image"
)

// String returns the serialized form of the type
func (t Type) String() string {
	return string(t)
}

// Letters are the fixed option keys, in display order
var Letters = [4]string{"A", "B", "C", "D"}

// Option is one labeled answer choice
type Option struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"text" yaml:"text"`
}

// Record is a single extracted multiple-choice question.
// Records are built by the Assembler and are not modified afterwards.
type Record struct {
	questionNo    string
	questionType  Type
	statement     string
	options       [4]Option
	correctAnswer string
	explanation   string
	reference     string
}

// RecordFields carries the values used to build a Record
type RecordFields struct {
	QuestionNo    string
	Type          Type
	Statement     string
	Options       [4]string
	CorrectAnswer string
	Explanation   string
	Reference     string
}

// NewRecord builds a record from already extracted fields, sanitizing every string.
// An answer that is not a single letter A-D is dropped.
func NewRecord(f RecordFields) Record {
	r := Record{
		questionNo:    Sanitize(f.QuestionNo),
		questionType:  f.Type,
		statement:     Sanitize(f.Statement),
		correctAnswer: normalizeAnswer(f.CorrectAnswer),
		explanation:   Sanitize(f.Explanation),
		reference:     Sanitize(f.Reference),
	}
	if r.questionType != TypeImage {
		r.questionType = TypeText
	}
	for i, letter := range Letters {
		r.options[i] = Option{Key: letter, Text: Sanitize(f.Options[i])}
	}
	return r
}

func normalizeAnswer(answer string) string {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	switch answer {
	case "A", "B", "C", "D":
		return answer
	default:
		return ""
	}
}

// QuestionNo returns the question number as it appeared in the source
func (r Record) QuestionNo() string { return r.questionNo }

// Type returns the text/image classification
func (r Record) Type() Type { return r.questionType }

// Statement returns the question statement
func (r Record) Statement() string { return r.statement }

// Options returns a copy of the four options in A-D order
func (r Record) Options() []Option {
	out := make([]Option, len(r.options))
	copy(out, r.options[:])
	return out
}

// Option returns the text of the option with the given letter, or "" if the
// letter is not one of A-D
func (r Record) Option(letter string) string {
	for _, opt := range r.options {
		if opt.Key == strings.ToUpper(letter) {
			return opt.Text
		}
	}
	return ""
}

// CorrectAnswer returns the answer letter or "" when none was detected
func (r Record) CorrectAnswer() string { return r.correctAnswer }

// Explanation returns the explanation with any reference removed
func (r Record) Explanation() string { return r.explanation }

// Reference returns the citation found in the explanation, if any
func (r Record) Reference() string { return r.reference }

// Fields returns the record contents as plain values
func (r Record) Fields() RecordFields {
	f := RecordFields{
		QuestionNo:    r.questionNo,
		Type:          r.questionType,
		Statement:     r.statement,
		CorrectAnswer: r.correctAnswer,
		Explanation:   r.explanation,
		Reference:     r.reference,
	}
	for i, opt := range r.options {
		f.Options[i] = opt.Text
	}
	return f
}

// Filter selects records by question type
type Filter string

const (
	FilterAll   Filter = "all"
	FilterText  Filter = "text"
	FilterImage Filter = "image"
)

// ParseFilter converts a user supplied filter name; an empty name means all
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return FilterAll, nil
	case "text":
		return FilterText, nil
	case "image":
		return FilterImage, nil
	default:
		return "", fmt.Errorf("invalid question type filter: %s (must be one of: all, text, image)", name)
	}
}

// Apply returns the records matching the filter, preserving order
func (f Filter) Apply(records []Record) []Record {
	if f == FilterAll || f == "" {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	var out []Record
	for _, r := range records {
		if string(r.Type()) == string(f) {
			out = append(out, r)
		}
	}
	return out
}

// String returns the filter name
func (f Filter) String() string {
	if f == "" {
		return string(FilterAll)
	}
	return string(f)
}

// Summary holds question counts by type
type Summary struct {
	Total      int `json:"total"`
	TextBased  int `json:"text_based"`
	ImageBased int `json:"image_based"`
}

// Summarize counts the records by type
func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Type() {
		case TypeImage:
			s.ImageBased++
		default:
			s.TextBased++
		}
	}
	return s
}
