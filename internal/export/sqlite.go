package export

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// SQLiteWriter writes records into a fresh SQLite database with a questions
// table in Columns order and a single row metadata table
type SQLiteWriter struct{}

// NewSQLiteWriter creates a SQLite database writer
func NewSQLiteWriter() *SQLiteWriter {
	return &SQLiteWriter{}
}

func (w *SQLiteWriter) Format() string    { return "sqlite" }
func (w *SQLiteWriter) Extension() string { return ".db" }

// WriteFile replaces any database at path with the exported records
func (w *SQLiteWriter) WriteFile(path string, records []question.Record, filter question.Filter, extracted time.Time) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := writeQuestions(db, records, filter, extracted); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

func writeQuestions(db *sql.DB, records []question.Record, filter question.Filter, extracted time.Time) error {
	columns := make([]string, len(Columns))
	for i, c := range Columns {
		columns[i] = c + " TEXT NOT NULL"
	}

	schema := []string{
		`CREATE TABLE questions (position INTEGER PRIMARY KEY, ` + strings.Join(columns, ", ") + `);`,
		`CREATE TABLE metadata (
			total_questions INTEGER NOT NULL,
			text_based INTEGER NOT NULL,
			image_based INTEGER NOT NULL,
			filter TEXT NOT NULL,
			extracted_date TEXT NOT NULL
		);`,
	}
	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)+1), ", ")
	stmt, err := tx.Prepare(`INSERT INTO questions (position, ` + strings.Join(Columns, ", ") + `) VALUES (` + placeholders + `)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		args := []any{i + 1}
		for _, v := range Row(r) {
			args = append(args, v)
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert question %s: %w", r.QuestionNo(), err)
		}
	}

	summary := question.Summarize(records)
	if _, err := tx.Exec(
		`INSERT INTO metadata (total_questions, text_based, image_based, filter, extracted_date) VALUES (?, ?, ?, ?, ?)`,
		summary.Total, summary.TextBased, summary.ImageBased, filter.String(), extracted.Format(DateLayout),
	); err != nil {
		return fmt.Errorf("failed to insert metadata: %w", err)
	}

	return tx.Commit()
}
