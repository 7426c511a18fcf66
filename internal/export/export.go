package export

import (
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// ErrNothingToWrite is returned when the filtered record set is empty
var ErrNothingToWrite = stderrors.New("no questions to write")

// Writer serializes a record set to a file in one format
type Writer interface {
	// Format is the name used to select the writer, e.g. "json"
	Format() string
	// Extension is the file extension including the dot
	Extension() string
	// WriteFile writes records, already filtered with filter, to path
	WriteFile(path string, records []question.Record, filter question.Filter, extracted time.Time) error
}

// Registry resolves writers by format name
type Registry struct {
	writers map[string]Writer
}

// NewRegistry creates a registry holding writers
func NewRegistry(writers ...Writer) *Registry {
	r := &Registry{writers: make(map[string]Writer, len(writers))}
	for _, w := range writers {
		r.writers[w.Format()] = w
	}
	return r
}

// DefaultRegistry holds every built-in format
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewJSONWriter(true),
		NewXLSXWriter(),
		NewCSVWriter(),
		NewTextWriter(),
		NewPDFWriter(),
		NewSQLiteWriter(),
		NewYAMLWriter(),
	)
}

// Lookup returns the writer for format, or an UnsupportedOutputFormat error
func (r *Registry) Lookup(format string) (Writer, error) {
	name := strings.ToLower(strings.TrimSpace(format))
	w, ok := r.writers[name]
	if !ok {
		return nil, exerrors.New(exerrors.ErrorTypeUnsupportedOutputFormat, "unsupported output format").
			WithFormat(format).
			WithContext("supported: " + strings.Join(r.Formats(), ", "))
	}
	return w, nil
}

// Formats lists the registered format names, sorted
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OutputFile describes one written file
type OutputFile struct {
	Path   string          `json:"path"`
	Format string          `json:"format"`
	Filter question.Filter `json:"filter"`
	Count  int             `json:"count"`
	Size   int64           `json:"size"`
}

// Exporter writes record sets into an output directory
type Exporter struct {
	registry  *Registry
	outputDir string
	logger    *log.Logger
	now       func() time.Time
}

// NewExporter creates an exporter writing below outputDir ("" means the
// working directory). A nil registry uses DefaultRegistry, a nil logger the
// standard logger.
func NewExporter(registry *Registry, outputDir string, logger *log.Logger) *Exporter {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{registry: registry, outputDir: outputDir, logger: logger, now: time.Now}
}

// Export writes the records matching filter to path in one format.
// An empty selection is logged and reported as ErrNothingToWrite.
func (e *Exporter) Export(records []question.Record, format string, filter question.Filter, path string) (OutputFile, error) {
	w, err := e.registry.Lookup(format)
	if err != nil {
		return OutputFile{}, err
	}
	return e.export(w, records, filter, path)
}

func (e *Exporter) export(w Writer, records []question.Record, filter question.Filter, path string) (OutputFile, error) {
	if len(records) == 0 {
		e.logger.Printf("No questions found to save!")
		return OutputFile{}, ErrNothingToWrite
	}
	selected := filter.Apply(records)
	if len(selected) == 0 {
		e.logger.Printf("No %s-based questions found!", filter)
		return OutputFile{}, ErrNothingToWrite
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return OutputFile{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := w.WriteFile(path, selected, filter, e.now()); err != nil {
		return OutputFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	out := OutputFile{Path: path, Format: w.Format(), Filter: filter, Count: len(selected)}
	if info, err := os.Stat(path); err == nil {
		out.Size = info.Size()
	}
	e.logger.Printf("[OK] Successfully saved %d questions to %s", out.Count, path)
	return out, nil
}

// SaveAll writes every format. With separateByType it writes
// <base>_all, <base>_text and <base>_image files per format, otherwise
// <base>. Unsupported formats and write failures are reported in the
// returned error without stopping the other outputs; empty selections are
// skipped silently.
func (e *Exporter) SaveAll(records []question.Record, baseName string, formats []string, separateByType bool) ([]OutputFile, error) {
	type target struct {
		suffix string
		filter question.Filter
	}
	targets := []target{{"", question.FilterAll}}
	if separateByType {
		targets = []target{
			{"_all", question.FilterAll},
			{"_text", question.FilterText},
			{"_image", question.FilterImage},
		}
	}

	var files []OutputFile
	var errs []error
	for _, format := range formats {
		w, err := e.registry.Lookup(format)
		if err != nil {
			e.logger.Printf("Skipping output format %q: %v", format, err)
			errs = append(errs, err)
			continue
		}

		for _, t := range targets {
			path := filepath.Join(e.outputDir, baseName+t.suffix+w.Extension())
			out, err := e.export(w, records, t.filter, path)
			if stderrors.Is(err, ErrNothingToWrite) {
				continue
			}
			if err != nil {
				e.logger.Printf("Error saving %s: %v", path, err)
				errs = append(errs, err)
				continue
			}
			files = append(files, out)
		}
	}
	return files, stderrors.Join(errs...)
}

// Formats returns the formats the exporter can write
func (e *Exporter) Formats() []string {
	return e.registry.Formats()
}

// ParseFormats splits a comma separated format list, dropping blanks and duplicates
func ParseFormats(list string) []string {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats
}
