package question

import (
	"fmt"
	"log"
	"strings"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
)

// Result is the outcome of assembling one block: a record or the reason the
// block was skipped
type Result struct {
	QuestionNo string
	Record     Record
	Err        error
}

// OK reports whether the block produced a record
func (r Result) OK() bool {
	return r.Err == nil
}

// Assembler turns question blocks into records
type Assembler struct {
	logger *log.Logger
	debug  bool
}

// NewAssembler creates an assembler that logs skipped blocks to logger.
// A nil logger uses the standard logger.
func NewAssembler(logger *log.Logger, debug bool) *Assembler {
	if logger == nil {
		logger = log.Default()
	}
	return &Assembler{logger: logger, debug: debug}
}

// Assemble parses one block into a record. Empty blocks are reported as
// MalformedQuestionBlock; blocks that are only missing some markers still
// produce a degraded record.
func (a *Assembler) Assemble(block Block) (rec Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = Record{}
			err = exerrors.New(exerrors.ErrorTypeMalformedQuestionBlock, "panic while parsing block").
				WithQuestion(block.QuestionNo).
				WithContext(fmt.Sprint(r))
		}
	}()

	if err := validateBlock(block); err != nil {
		return Record{}, err
	}

	statement := ExtractStatement(block.Content)
	options := ExtractOptions(block.Content)
	answer := ExtractAnswer(block.Content)
	reference, explanation := ExtractReference(ExtractExplanation(block.Content))
	questionType := Classify(statement, strings.Join(options[:], " "))

	rec = NewRecord(RecordFields{
		QuestionNo:    block.QuestionNo,
		Type:          questionType,
		Statement:     statement,
		Options:       options,
		CorrectAnswer: answer,
		Explanation:   explanation,
		Reference:     reference,
	})

	if a.debug {
		if missing := missingOptions(rec); len(missing) > 0 {
			a.logger.Printf("Question %s: degraded record, missing option(s) %s", rec.QuestionNo(), strings.Join(missing, ","))
		}
		if rec.CorrectAnswer() == "" {
			a.logger.Printf("Question %s: no answer detected", rec.QuestionNo())
		}
	}

	return rec, nil
}

// AssembleAll assembles every block, one Result per block in input order.
// A failing block is logged and never affects the others.
func (a *Assembler) AssembleAll(blocks []Block) []Result {
	results := make([]Result, 0, len(blocks))
	for _, block := range blocks {
		rec, err := a.Assemble(block)
		if err != nil {
			a.logger.Printf("Error parsing question %s: %v", block.QuestionNo, err)
		}
		results = append(results, Result{QuestionNo: block.QuestionNo, Record: rec, Err: err})
	}
	return results
}

// Records returns the records of the successful results, in order
func Records(results []Result) []Record {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		if r.OK() {
			records = append(records, r.Record)
		}
	}
	return records
}

// Failures returns the errors of the skipped blocks, in order
func Failures(results []Result) []error {
	var failures []error
	for _, r := range results {
		if !r.OK() {
			failures = append(failures, r.Err)
		}
	}
	return failures
}

// Parse segments raw text and assembles every block
func (a *Assembler) Parse(raw string) []Result {
	return a.AssembleAll(Segment(raw))
}

// validateBlock rejects blocks with nothing left after sanitizing. Any other
// block yields a record, degraded when markers are missing.
func validateBlock(block Block) error {
	content := Sanitize(block.Content)
	if content == "" {
		return exerrors.New(exerrors.ErrorTypeMalformedQuestionBlock, "empty question block").
			WithQuestion(block.QuestionNo)
	}
	return nil
}

func missingOptions(rec Record) []string {
	var missing []string
	for _, opt := range rec.Options() {
		if opt.Text == "" {
			missing = append(missing, opt.Key)
		}
	}
	return missing
}
