package export

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
	"github.com/a3tai/pdf-question-extractor/internal/question"
)

var extractedAt = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

func sampleRecords() []question.Record {
	return []question.Record{
		question.NewRecord(question.RecordFields{
			QuestionNo:    "1",
			Type:          question.TypeText,
			Statement:     "Which protocol resolves host names to addresses?",
			Options:       [4]string{"DHCP", "DNS", "ARP", "NTP"},
			CorrectAnswer: "B",
			Explanation:   "DNS maps names to \"addresses\".",
			Reference:     "Networking Guide",
		}),
		question.NewRecord(question.RecordFields{
			QuestionNo:    "2",
			Type:          question.TypeImage,
			Statement:     "Refer to the exhibit.",
			Options:       [4]string{"one", "two", "three", "four"},
			CorrectAnswer: "D",
		}),
		question.NewRecord(question.RecordFields{
			QuestionNo:    "3",
			Type:          question.TypeText,
			Statement:     "Café, naïve and 日本語 survive every format.",
			Options:       [4]string{"yes", "no", "", "maybe, with commas"},
			CorrectAnswer: "A",
			Explanation:   "Unicode <text> & HTML characters.",
		}),
	}
}

func newTestExporter(t *testing.T) (*Exporter, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	e := NewExporter(nil, dir, log.New(&buf, "", 0))
	e.now = func() time.Time { return extractedAt }
	return e, &buf, dir
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{"csv", "json", "pdf", "sqlite", "txt", "xlsx", "yaml"}, r.Formats())

	w, err := r.Lookup(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, "json", w.Format())

	_, err = r.Lookup("docx")
	require.Error(t, err)
	assert.True(t, exerrors.IsType(err, exerrors.ErrorTypeUnsupportedOutputFormat))
	assert.Contains(t, err.Error(), "docx")
	assert.Contains(t, err.Error(), "supported: csv, json")
}

func TestExporter_Export(t *testing.T) {
	e, logs, dir := newTestExporter(t)

	path := filepath.Join(dir, "nested", "out.json")
	out, err := e.Export(sampleRecords(), "json", question.FilterText, path)
	require.NoError(t, err)

	assert.Equal(t, path, out.Path)
	assert.Equal(t, "json", out.Format)
	assert.Equal(t, 2, out.Count)
	assert.Greater(t, out.Size, int64(0))
	assert.Contains(t, logs.String(), "[OK] Successfully saved 2 questions to "+path)

	doc, err := ReadJSONFile(path)
	require.NoError(t, err)
	assert.Equal(t, "text", doc.Metadata.Filter)
	assert.Equal(t, 2, doc.Metadata.TotalQuestions)
}

func TestExporter_ExportEmpty(t *testing.T) {
	e, logs, dir := newTestExporter(t)

	_, err := e.Export(nil, "json", question.FilterAll, filepath.Join(dir, "a.json"))
	assert.ErrorIs(t, err, ErrNothingToWrite)
	assert.Contains(t, logs.String(), "No questions found to save!")

	textOnly := sampleRecords()[:1]
	_, err = e.Export(textOnly, "json", question.FilterImage, filepath.Join(dir, "b.json"))
	assert.ErrorIs(t, err, ErrNothingToWrite)
	assert.Contains(t, logs.String(), "No image-based questions found!")

	assert.NoFileExists(t, filepath.Join(dir, "a.json"))
	assert.NoFileExists(t, filepath.Join(dir, "b.json"))
}

func TestExporter_SaveAll(t *testing.T) {
	t.Run("separate by type", func(t *testing.T) {
		e, _, dir := newTestExporter(t)

		files, err := e.SaveAll(sampleRecords(), "exam", []string{"json", "csv"}, true)
		require.NoError(t, err)
		require.Len(t, files, 6)

		want := map[string]int{
			"exam_all.json":   3,
			"exam_text.json":  2,
			"exam_image.json": 1,
			"exam_all.csv":    3,
			"exam_text.csv":   2,
			"exam_image.csv":  1,
		}
		for _, f := range files {
			name := filepath.Base(f.Path)
			count, ok := want[name]
			require.True(t, ok, "unexpected file %s", name)
			assert.Equal(t, count, f.Count, name)
			assert.Equal(t, dir, filepath.Dir(f.Path), name)

			info, err := os.Stat(f.Path)
			require.NoError(t, err)
			assert.Equal(t, info.Size(), f.Size)
		}
	})

	t.Run("single file per format", func(t *testing.T) {
		e, _, dir := newTestExporter(t)

		files, err := e.SaveAll(sampleRecords(), "exam", []string{"yaml"}, false)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, filepath.Join(dir, "exam.yaml"), files[0].Path)
	})

	t.Run("empty selections are skipped", func(t *testing.T) {
		e, _, dir := newTestExporter(t)

		textOnly := sampleRecords()[:1]
		files, err := e.SaveAll(textOnly, "exam", []string{"json"}, true)
		require.NoError(t, err)
		assert.Len(t, files, 2)
		assert.NoFileExists(t, filepath.Join(dir, "exam_image.json"))
	})

	t.Run("unsupported format does not stop the others", func(t *testing.T) {
		e, logs, _ := newTestExporter(t)

		files, err := e.SaveAll(sampleRecords(), "exam", []string{"docx", "txt"}, false)
		require.Error(t, err)
		assert.True(t, exerrors.IsType(err, exerrors.ErrorTypeUnsupportedOutputFormat))
		require.Len(t, files, 1)
		assert.Equal(t, "txt", files[0].Format)
		assert.Contains(t, logs.String(), `Skipping output format "docx"`)
	})
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		list string
		want []string
	}{
		{"json", []string{"json"}},
		{"json,xlsx", []string{"json", "xlsx"}},
		{" JSON , csv,,json ", []string{"json", "csv"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormats(tt.list))
		})
	}
}

func TestDocument_RecordsMatchesOptionsByKey(t *testing.T) {
	doc := Document{Questions: []Question{{
		QuestionNo:        "4",
		QuestionType:      "text",
		QuestionStatement: "Shuffled options",
		Options: []question.Option{
			{Key: "D", Text: "four"},
			{Key: "A", Text: "one"},
			{Key: "C", Text: "three"},
			{Key: "B", Text: "two"},
		},
		CorrectAnswer: "C",
	}}}

	records := doc.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "one", records[0].Option("A"))
	assert.Equal(t, "four", records[0].Option("D"))
	assert.Equal(t, "C", records[0].CorrectAnswer())
}

func TestRow(t *testing.T) {
	row := Row(sampleRecords()[0])
	require.Len(t, row, len(Columns))
	assert.Equal(t, []string{
		"1", "text", "Which protocol resolves host names to addresses?",
		"DHCP", "DNS", "ARP", "NTP", "B",
		"DNS maps names to \"addresses\".", "Networking Guide",
	}, row)
}
