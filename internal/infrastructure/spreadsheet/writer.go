package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	outputSheetName = "Sheet1"
	errorSheetName  = "오류"
)

// Writer builds the canonical output workbook row by row through an excelize
// stream writer, so output size is not bounded by memory.
type Writer struct {
	file        *excelize.File
	sw          *excelize.StreamWriter
	headerStyle int
	nextRow     int
	flushed     bool
}

// NewWriter creates a workbook with a single output sheet ready for appending.
func NewWriter() (*Writer, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(outputSheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	return &Writer{file: f, sw: sw, headerStyle: headerStyle}, nil
}

// AppendRow writes one row of cells to the next output line.
func (w *Writer) AppendRow(cells []interface{}) error {
	w.nextRow++
	cellRef, err := excelize.CoordinatesToCellName(1, w.nextRow)
	if err != nil {
		return err
	}
	return w.sw.SetRow(cellRef, cells)
}

// AppendHeaderRow writes one styled header row to the next output line.
func (w *Writer) AppendHeaderRow(labels []string) error {
	cells := make([]interface{}, len(labels))
	for i, label := range labels {
		cells[i] = excelize.Cell{StyleID: w.headerStyle, Value: label}
	}
	return w.AppendRow(cells)
}

// RowCount returns the number of rows written so far.
func (w *Writer) RowCount() int {
	return w.nextRow
}

// AppendErrorSheet adds an auxiliary sheet listing row-level errors. Callers
// only invoke this when at least one error occurred.
func (w *Writer) AppendErrorSheet(errs []RowError) error {
	if err := w.flush(); err != nil {
		return err
	}

	if _, err := w.file.NewSheet(errorSheetName); err != nil {
		return fmt.Errorf("failed to create error sheet: %w", err)
	}

	if err := w.file.SetSheetRow(errorSheetName, "A1", &[]interface{}{"행", "오류 내용"}); err != nil {
		return err
	}
	for i, re := range errs {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(errorSheetName, cellRef, &[]interface{}{re.Row, re.Message}); err != nil {
			return err
		}
	}
	return nil
}

// Bytes finalizes the workbook and returns the xlsx file contents.
func (w *Writer) Bytes() ([]byte, error) {
	if err := w.flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := w.file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the underlying workbook.
func (w *Writer) Close() error {
	return w.file.Close()
}

func (w *Writer) flush() error {
	if w.flushed {
		return nil
	}
	if err := w.sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream writer: %w", err)
	}
	w.flushed = true
	return nil
}
