package pipeline

import (
	"time"

	"github.com/google/uuid"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// Session holds the records extracted from one document during one Process
// call. It is owned by a single pipeline and never shared.
type Session struct {
	ID        string
	Source    string
	StartedAt time.Time

	records []question.Record
	errors  *exerrors.ErrorCollection
}

// NewSession creates an empty session for source
func NewSession(source string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: time.Now(),
		errors:    exerrors.NewErrorCollection(source),
	}
}

func (s *Session) add(rec question.Record) {
	s.records = append(s.records, rec)
}

// Records returns a copy of the accumulated records in source order
func (s *Session) Records() []question.Record {
	out := make([]question.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records
func (s *Session) Len() int {
	return len(s.records)
}

// ByType returns the records of one type, in source order
func (s *Session) ByType(t question.Type) []question.Record {
	return question.Filter(t).Apply(s.records)
}

// Summary counts the records by type
func (s *Session) Summary() question.Summary {
	return question.Summarize(s.records)
}

// Errors returns the failures collected during the run
func (s *Session) Errors() *exerrors.ErrorCollection {
	return s.errors
}
