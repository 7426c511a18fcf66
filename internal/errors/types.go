package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ExtractionError describes a failure while turning a document into question
// records, with enough context to locate the cause
type ExtractionError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	QuestionNo string    `json:"question_no,omitempty"`
	Format     string    `json:"format,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Err        error     `json:"-"`
}

// ErrorType represents the categories of extraction failures
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeUnreadableDocument
	ErrorTypeEncryptedDocument
	ErrorTypePageExtractionFailure
	ErrorTypeMalformedQuestionBlock
	ErrorTypeUnsupportedOutputFormat
)

// Error implements the error interface
func (e *ExtractionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Type.String(), e.Message)

	var where []string
	if e.FilePath != "" {
		where = append(where, "file "+e.FilePath)
	}
	if e.PageNumber > 0 {
		where = append(where, fmt.Sprintf("page %d", e.PageNumber))
	}
	if e.QuestionNo != "" {
		where = append(where, "question "+e.QuestionNo)
	}
	if e.Format != "" {
		where = append(where, "format "+e.Format)
	}
	if len(where) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(where, ", "))
	}

	if e.Context != "" {
		fmt.Fprintf(&b, ": %s", e.Context)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches another ExtractionError of the same type, so callers can test
// errors.Is(err, errors.New(errors.ErrorTypeEncryptedDocument, ""))
func (e *ExtractionError) Is(target error) bool {
	t, ok := target.(*ExtractionError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnreadableDocument:
		return "UNREADABLE_DOCUMENT"
	case ErrorTypeEncryptedDocument:
		return "ENCRYPTED_DOCUMENT"
	case ErrorTypePageExtractionFailure:
		return "PAGE_EXTRACTION_FAILURE"
	case ErrorTypeMalformedQuestionBlock:
		return "MALFORMED_QUESTION_BLOCK"
	case ErrorTypeUnsupportedOutputFormat:
		return "UNSUPPORTED_OUTPUT_FORMAT"
	default:
		return "UNKNOWN"
	}
}

// IsDocumentLevel reports whether the error type stops processing of the whole
// document. All other types are isolated to one page, block or output format.
func (et ErrorType) IsDocumentLevel() bool {
	switch et {
	case ErrorTypeUnreadableDocument, ErrorTypeEncryptedDocument:
		return true
	default:
		return false
	}
}

// New creates a new ExtractionError
func New(errorType ErrorType, message string) *ExtractionError {
	return &ExtractionError{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps a standard error as an ExtractionError
func Wrap(errorType ErrorType, message string, err error) *ExtractionError {
	e := New(errorType, message)
	e.Err = err
	return e
}

// WithContext adds context to an existing ExtractionError
func (e *ExtractionError) WithContext(context string) *ExtractionError {
	e.Context = context
	return e
}

// WithFile adds file path information
func (e *ExtractionError) WithFile(filePath string) *ExtractionError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information
func (e *ExtractionError) WithPage(pageNumber int) *ExtractionError {
	e.PageNumber = pageNumber
	return e
}

// WithQuestion adds the question number of the failing block
func (e *ExtractionError) WithQuestion(questionNo string) *ExtractionError {
	e.QuestionNo = questionNo
	return e
}

// WithFormat adds the output format name
func (e *ExtractionError) WithFormat(format string) *ExtractionError {
	e.Format = format
	return e
}

// IsDocumentLevel reports whether this error aborts the whole document
func (e *ExtractionError) IsDocumentLevel() bool {
	return e.Type.IsDocumentLevel()
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var ee *ExtractionError
	if stderrors.As(err, &ee) {
		return ee.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err carries the given ErrorType
func IsType(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}

// ErrorCollection accumulates the isolated failures of one run
type ErrorCollection struct {
	Errors   []*ExtractionError `json:"errors"`
	FilePath string             `json:"file_path,omitempty"`
}

// NewErrorCollection creates a new error collection
func NewErrorCollection(filePath string) *ErrorCollection {
	return &ErrorCollection{
		Errors:   make([]*ExtractionError, 0),
		FilePath: filePath,
	}
}

// Add records an error, filling in the collection's file path when missing
func (ec *ErrorCollection) Add(err *ExtractionError) {
	if err == nil {
		return
	}
	if err.FilePath == "" && ec.FilePath != "" {
		err.FilePath = ec.FilePath
	}
	ec.Errors = append(ec.Errors, err)
}

// OfType returns the collected errors of one type
func (ec *ErrorCollection) OfType(errorType ErrorType) []*ExtractionError {
	matched := make([]*ExtractionError, 0)
	for _, err := range ec.Errors {
		if err.Type == errorType {
			matched = append(matched, err)
		}
	}
	return matched
}

// HasDocumentLevel returns true if any error stopped the whole document
func (ec *ErrorCollection) HasDocumentLevel() bool {
	for _, err := range ec.Errors {
		if err.IsDocumentLevel() {
			return true
		}
	}
	return false
}

// Count returns the number of collected errors
func (ec *ErrorCollection) Count() int {
	return len(ec.Errors)
}

// Summary returns a text summary of the collected errors
func (ec *ErrorCollection) Summary() string {
	if len(ec.Errors) == 0 {
		return "No errors"
	}

	counts := make(map[ErrorType]int)
	var order []ErrorType
	for _, err := range ec.Errors {
		if counts[err.Type] == 0 {
			order = append(order, err.Type)
		}
		counts[err.Type]++
	}

	parts := make([]string, 0, len(order))
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], t.String()))
	}

	summary := fmt.Sprintf("Found %d error(s): %s", len(ec.Errors), strings.Join(parts, ", "))
	if ec.HasDocumentLevel() {
		summary += " (document could not be read)"
	}
	return summary
}
