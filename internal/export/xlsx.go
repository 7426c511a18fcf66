package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/pdf-question-extractor/internal/question"
)

// SheetName is the worksheet holding the questions
const SheetName = "Questions"

// XLSXWriter writes one row per record into an Excel workbook
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSX writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (w *XLSXWriter) Format() string    { return "xlsx" }
func (w *XLSXWriter) Extension() string { return ".xlsx" }

// WriteFile writes the header row and one row per record to path
func (w *XLSXWriter) WriteFile(path string, records []question.Record, _ question.Filter, _ time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	// the new workbook holds only the default sheet; rename it
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	if index, _ := f.GetSheetIndex(SheetName); index != -1 {
		f.SetActiveSheet(index)
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for r, rec := range records {
		for c, value := range Row(rec) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("xlsx row %d: %w", r+2, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "B", 14) // number, type
	_ = f.SetColWidth(SheetName, "C", "C", 60) // statement
	_ = f.SetColWidth(SheetName, "D", "G", 30) // options
	_ = f.SetColWidth(SheetName, "H", "H", 14) // answer
	_ = f.SetColWidth(SheetName, "I", "J", 60) // explanation, reference

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
