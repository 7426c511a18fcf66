package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-question-extractor/internal/config"
	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
	"github.com/a3tai/pdf-question-extractor/internal/export"
	"github.com/a3tai/pdf-question-extractor/internal/pdf"
	"github.com/a3tai/pdf-question-extractor/internal/pipeline"
	"github.com/a3tai/pdf-question-extractor/internal/question"
)

const examText = "QUESTION NO: 1\nWhich port does HTTPS use by default on a web server?\n" +
	"A. 21\nB. 80\nC. 443\nD. 8080\nANSWER: C\nExplanation: TLS over TCP 443.\n" +
	"QUESTION NO: 2\nSee the diagram below.\nA. R1\nB. R2\nC. R3\nD. R4\nANSWER: A\n"

// fakeSource serves document text by path
type fakeSource map[string]string

func (f fakeSource) ExtractDocument(path string) (*pdf.Document, error) {
	text, ok := f[path]
	if !ok {
		return nil, exerrors.New(exerrors.ErrorTypeUnreadableDocument, "not a PDF").WithFile(path)
	}
	return &pdf.Document{Path: path, Pages: []string{text}}, nil
}

// newTestApp writes a placeholder file for every document so existence
// checks pass, and serves the text through a fake source
func newTestApp(t *testing.T, docs map[string]string) (*app, *bytes.Buffer, string) {
	t.Helper()
	inputDir := t.TempDir()

	source := fakeSource{}
	for name, text := range docs {
		path := filepath.Join(inputDir, name)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
		source[path] = text
	}

	cfg := config.DefaultConfig()
	cfg.Directory = inputDir
	cfg.OutputDir = t.TempDir()
	cfg.BaseName = "exam"
	cfg.Formats = []string{"json", "csv"}
	cfg.SeparateByType = true
	cfg.ShowSample = true
	cfg.Workers = 2

	logger := log.New(io.Discard, "", 0)
	var out bytes.Buffer
	a := &app{
		cfg:    cfg,
		out:    &out,
		logger: logger,
		newPipeline: func() *pipeline.Pipeline {
			return pipeline.New(source, nil, pdf.Capabilities{}, logger, false)
		},
		exporter: export.NewExporter(nil, cfg.OutputDir, logger),
	}
	return a, &out, inputDir
}

func TestApp_Extract(t *testing.T) {
	a, out, inputDir := newTestApp(t, map[string]string{"exam.pdf": examText})

	err := a.extract(context.Background(), filepath.Join(inputDir, "exam.pdf"))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "PDF QUESTION EXTRACTOR")
	assert.Contains(t, text, "Output formats: json, csv")
	assert.Contains(t, text, "Total questions extracted: 2")
	assert.Contains(t, text, "Text-based questions: 1")
	assert.Contains(t, text, "Image-based questions: 1")
	assert.Contains(t, text, "SAMPLE QUESTION")
	assert.Contains(t, text, "Question No: 1")
	assert.Contains(t, text, "Option C: 443")
	assert.Contains(t, text, "Correct Answer: C")
	assert.Contains(t, text, "EXTRACTION COMPLETED SUCCESSFULLY!")

	for _, name := range []string{
		"exam_all.json", "exam_text.json", "exam_image.json",
		"exam_all.csv", "exam_text.csv", "exam_image.csv",
	} {
		path := filepath.Join(a.cfg.OutputDir, name)
		assert.FileExists(t, path)
		assert.Contains(t, text, path)
	}

	doc, err := export.ReadJSONFile(filepath.Join(a.cfg.OutputDir, "exam_all.json"))
	require.NoError(t, err)
	assert.Len(t, doc.Questions, 2)
}

func TestApp_ExtractMissingFile(t *testing.T) {
	a, out, inputDir := newTestApp(t, nil)

	err := a.extract(context.Background(), filepath.Join(inputDir, "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, out.String(), "PDF file not found")
}

func TestApp_ExtractNoQuestions(t *testing.T) {
	a, out, inputDir := newTestApp(t, map[string]string{"cover.pdf": "Just a cover page"})

	err := a.extract(context.Background(), filepath.Join(inputDir, "cover.pdf"))
	assert.ErrorIs(t, err, errNoQuestions)
	assert.Contains(t, out.String(), "ERROR: No questions were extracted!")
	assert.Contains(t, out.String(), "Possible solutions:")

	entries, err := os.ReadDir(a.cfg.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_ExtractUnsupportedFormat(t *testing.T) {
	a, out, inputDir := newTestApp(t, map[string]string{"exam.pdf": examText})
	a.cfg.Formats = []string{"json", "docx"}
	a.cfg.SeparateByType = false

	err := a.extract(context.Background(), filepath.Join(inputDir, "exam.pdf"))
	require.Error(t, err)
	assert.True(t, exerrors.IsType(err, exerrors.ErrorTypeUnsupportedOutputFormat))
	assert.FileExists(t, filepath.Join(a.cfg.OutputDir, "exam.json"))
	assert.NotContains(t, out.String(), "COMPLETED SUCCESSFULLY")
}

func TestApp_Batch(t *testing.T) {
	a, out, inputDir := newTestApp(t, map[string]string{
		"chapter1.pdf": examText,
		"chapter2.pdf": examText,
		"cover.pdf":    "no questions here",
	})

	paths := []string{
		filepath.Join(inputDir, "chapter1.pdf"),
		filepath.Join(inputDir, "missing.pdf"),
		filepath.Join(inputDir, "chapter2.pdf"),
		filepath.Join(inputDir, "cover.pdf"),
	}
	result, err := a.batch(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, result.Successful, 2)
	assert.Equal(t, paths[0], result.Successful[0].Path)
	assert.Equal(t, paths[2], result.Successful[1].Path)
	assert.Equal(t, 4, result.TotalQuestions)

	require.Len(t, result.Failed, 2)
	assert.Equal(t, pipeline.DocumentFailure{Path: paths[1], Reason: pipeline.ReasonFileNotFound}, result.Failed[0])
	assert.Equal(t, pipeline.DocumentFailure{Path: paths[3], Reason: pipeline.ReasonNoQuestionsFound}, result.Failed[1])

	assert.FileExists(t, filepath.Join(a.cfg.OutputDir, "chapter1_all.json"))
	assert.FileExists(t, filepath.Join(a.cfg.OutputDir, "chapter2_image.csv"))

	text := out.String()
	assert.Contains(t, text, "BATCH PROCESSING SUMMARY")
	assert.Contains(t, text, "Successful: 2")
	assert.Contains(t, text, "Failed: 2")
	assert.Contains(t, text, "Total questions extracted: 4")
	assert.Contains(t, text, paths[1]+": file not found")
}

func TestApp_BatchPaths(t *testing.T) {
	a, _, inputDir := newTestApp(t, map[string]string{
		"b.pdf": examText,
		"a.pdf": examText,
	})

	explicit, err := a.batchPaths([]string{"x.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.pdf"}, explicit)

	resolved, err := filepath.EvalSymlinks(inputDir)
	require.NoError(t, err)

	found, err := a.batchPaths(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(resolved, "a.pdf"), filepath.Join(resolved, "b.pdf")}, found)
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() { version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit }()

	version = "1.2.3"
	buildTime = "2024-05-01_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)

	for _, expected := range []string{
		"PDF Question Extractor",
		"Version: 1.2.3",
		"Build Time: 2024-05-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		assert.Contains(t, buf.String(), expected)
	}
}

func TestRootCmd(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		cmd := newRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"version"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "Version: "+version)
	})

	t.Run("extract requires an input", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"extract", "--output-dir", t.TempDir()})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input PDF is required")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"extract", "--output-dir", t.TempDir(), "--loglevel", "loud", "exam.pdf"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("check", func(t *testing.T) {
		cmd := newRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"check", "--pdftoppm", "no-such-pdftoppm-binary"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "pdftoppm NOT installed")
		assert.Contains(t, buf.String(), "Setup check complete!")
	})

	t.Run("subcommands", func(t *testing.T) {
		var names []string
		for _, c := range newRootCmd().Commands() {
			names = append(names, c.Name())
		}
		for _, want := range []string{"extract", "batch", "serve", "check", "version"} {
			assert.Contains(t, names, want)
		}
	})
}

func TestSetupLogging(t *testing.T) {
	oldWriter, oldFlags := log.Writer(), log.Flags()
	defer func() {
		log.SetOutput(oldWriter)
		log.SetFlags(oldFlags)
	}()

	tests := []struct {
		name       string
		logLevel   string
		mcpStdio   bool
		wantWriter io.Writer
		wantFlags  int
	}{
		{"stdio silenced", "info", true, io.Discard, -1},
		{"stdio debug", "debug", true, os.Stderr, -1},
		{"cli", "info", false, os.Stderr, log.LstdFlags},
		{"cli debug", "debug", false, os.Stderr, log.LstdFlags | log.Lshortfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogging(&config.Config{LogLevel: tt.logLevel}, tt.mcpStdio)
			assert.Equal(t, tt.wantWriter, log.Writer())
			if tt.wantFlags >= 0 {
				assert.Equal(t, tt.wantFlags, log.Flags())
			}
		})
	}
}

func TestPrintCheck(t *testing.T) {
	var buf bytes.Buffer
	printCheck(&buf, pdf.Capabilities{OCR: true, Pdftoppm: "/usr/bin/pdftoppm", Tesseract: "/usr/bin/tesseract"})

	text := buf.String()
	assert.Contains(t, text, "pdftoppm installed (/usr/bin/pdftoppm)")
	assert.Contains(t, text, "tesseract installed (/usr/bin/tesseract)")
	assert.Contains(t, text, "OCR: available")
	assert.Contains(t, text, "Output formats: csv, json, pdf, sqlite, txt, xlsx, yaml")
}

func TestPrintOutputFiles(t *testing.T) {
	var buf bytes.Buffer
	printOutputFiles(&buf, []export.OutputFile{{Path: "out/exam.json", Size: 1234567}})
	assert.Contains(t, buf.String(), "  - out/exam.json (1,234,567 bytes)")

	buf.Reset()
	printOutputFiles(&buf, nil)
	assert.Contains(t, buf.String(), "(none)")
}

func TestPrintSample(t *testing.T) {
	long := strings.Repeat("x", 250)
	r := question.NewRecord(question.RecordFields{
		QuestionNo: "7",
		Type:       question.TypeText,
		Statement:  long,
		Options:    [4]string{strings.Repeat("é", 120), "b", "c", "d"},
	})

	var buf bytes.Buffer
	printSample(&buf, r)

	text := buf.String()
	assert.Contains(t, text, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, text, strings.Repeat("x", 201))
	assert.Contains(t, text, "Option A: "+strings.Repeat("é", 100)+"...")
	assert.Contains(t, text, "Correct Answer: (not detected)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "日本...", truncate("日本語", 2))
}
