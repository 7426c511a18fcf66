package export

import (
	"time"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// DateLayout is the format of Metadata.ExtractedDate
const DateLayout = "2006-01-02 15:04:05"

// Columns is the fixed column order of the tabular formats
var Columns = []string{
	"question_no",
	"question_type",
	"question_statement",
	"option_A",
	"option_B",
	"option_C",
	"option_D",
	"correct_answer",
	"explanation",
	"reference",
}

// Document is the serialized form shared by the JSON and YAML formats
type Document struct {
	Metadata  Metadata   `json:"metadata" yaml:"metadata"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Metadata describes the exported question set
type Metadata struct {
	TotalQuestions int    `json:"total_questions" yaml:"total_questions"`
	TextBased      int    `json:"text_based" yaml:"text_based"`
	ImageBased     int    `json:"image_based" yaml:"image_based"`
	Filter         string `json:"filter" yaml:"filter"`
	ExtractedDate  string `json:"extracted_date" yaml:"extracted_date"`
}

// Question is one serialized record
type Question struct {
	QuestionNo        string            `json:"question_no" yaml:"question_no"`
	QuestionType      string            `json:"question_type" yaml:"question_type"`
	QuestionStatement string            `json:"question_statement" yaml:"question_statement"`
	Options           []question.Option `json:"options" yaml:"options"`
	CorrectAnswer     string            `json:"correct_answer" yaml:"correct_answer"`
	Explanation       string            `json:"explanation" yaml:"explanation"`
	Reference         string            `json:"reference" yaml:"reference"`
}

// NewDocument builds the serialized form of records, which must already be
// filtered with filter
func NewDocument(records []question.Record, filter question.Filter, extracted time.Time) Document {
	summary := question.Summarize(records)
	doc := Document{
		Metadata: Metadata{
			TotalQuestions: summary.Total,
			TextBased:      summary.TextBased,
			ImageBased:     summary.ImageBased,
			Filter:         filter.String(),
			ExtractedDate:  extracted.Format(DateLayout),
		},
		Questions: make([]Question, 0, len(records)),
	}
	for _, r := range records {
		doc.Questions = append(doc.Questions, Question{
			QuestionNo:        r.QuestionNo(),
			QuestionType:      r.Type().String(),
			QuestionStatement: r.Statement(),
			Options:           r.Options(),
			CorrectAnswer:     r.CorrectAnswer(),
			Explanation:       r.Explanation(),
			Reference:         r.Reference(),
		})
	}
	return doc
}

// Records converts the serialized questions back into records.
// Options are matched by key, so their order in the file does not matter.
func (d Document) Records() []question.Record {
	records := make([]question.Record, 0, len(d.Questions))
	for _, q := range d.Questions {
		var opts [4]string
		for _, opt := range q.Options {
			for i, letter := range question.Letters {
				if opt.Key == letter {
					opts[i] = opt.Text
				}
			}
		}
		records = append(records, question.NewRecord(question.RecordFields{
			QuestionNo:    q.QuestionNo,
			Type:          question.Type(q.QuestionType),
			Statement:     q.QuestionStatement,
			Options:       opts,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Reference:     q.Reference,
		}))
	}
	return records
}

// Row returns the tabular columns of a record, in Columns order
func Row(r question.Record) []string {
	f := r.Fields()
	return []string{
		f.QuestionNo,
		f.Type.String(),
		f.Statement,
		f.Options[0],
		f.Options[1],
		f.Options[2],
		f.Options[3],
		f.CorrectAnswer,
		f.Explanation,
		f.Reference,
	}
}
