package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

//go:embed schema.json
var documentSchema []byte

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// schema compiles the embedded document schema once
func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(documentSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// JSONWriter writes the question document as JSON
type JSONWriter struct {
	pretty bool
}

// NewJSONWriter creates a JSON writer; pretty indents with two spaces
func NewJSONWriter(pretty bool) *JSONWriter {
	return &JSONWriter{pretty: pretty}
}

func (w *JSONWriter) Format() string    { return "json" }
func (w *JSONWriter) Extension() string { return ".json" }

// WriteFile writes records to path
func (w *JSONWriter) WriteFile(path string, records []question.Record, filter question.Filter, extracted time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Write(f, records, filter, extracted); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes records to out. Non-ASCII text is written as UTF-8 and HTML
// characters are not escaped.
func (w *JSONWriter) Write(out io.Writer, records []question.Record, filter question.Filter, extracted time.Time) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if w.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(records, filter, extracted))
}

// ReadJSON parses a document written by JSONWriter, validating it against the
// document schema first
func ReadJSON(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	s, err := schema()
	if err != nil {
		return Document{}, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return Document{}, fmt.Errorf("json does not match schema: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// ReadJSONFile reads a document from path
func ReadJSONFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return ReadJSON(f)
}
