package export

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// YAMLWriter writes the same document shape as the JSON writer in YAML
type YAMLWriter struct{}

// NewYAMLWriter creates a YAML document writer
func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{}
}

func (w *YAMLWriter) Format() string    { return "yaml" }
func (w *YAMLWriter) Extension() string { return ".yaml" }

// WriteFile writes records as a YAML document to path
func (w *YAMLWriter) WriteFile(path string, records []question.Record, filter question.Filter, extracted time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(records, filter, extracted)); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadYAMLFile decodes a YAML document previously written by YAMLWriter
func ReadYAMLFile(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("invalid YAML question document: %w", err)
	}
	return doc, nil
}
