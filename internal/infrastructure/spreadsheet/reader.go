// Package spreadsheet wraps excelize with streaming row access for ingest.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawRow is one source row with its 1-based row number.
type RawRow struct {
	Number int
	Cells  []string
}

// IsBlank reports whether every cell is empty after trimming.
func (r RawRow) IsBlank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Cell returns the trimmed value of the 1-based column, or "" when the row is
// shorter than col.
func (r RawRow) Cell(col int) string {
	if col < 1 || col > len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[col-1])
}

// Workbook is a read handle over an uploaded xlsx file.
type Workbook struct {
	file  *excelize.File
	sheet string
}

// OpenWorkbook opens the first worksheet of an xlsx stream for row iteration.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrNoWorksheet
	}

	return &Workbook{file: f, sheet: sheets[0]}, nil
}

// SheetName returns the worksheet being read.
func (w *Workbook) SheetName() string {
	return w.sheet
}

// Rows returns a forward-only row iterator over the worksheet. The iterator
// must be closed by the caller.
func (w *Workbook) Rows() (*RowIterator, error) {
	rows, err := w.file.Rows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %q: %w", w.sheet, err)
	}
	return &RowIterator{rows: rows}, nil
}

// Close releases the underlying file handle.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// RowIterator streams rows one at a time so large workbooks never load fully
// into memory.
type RowIterator struct {
	rows    *excelize.Rows
	current RawRow
	number  int
	err     error
}

// Next advances to the next row. It returns false when the sheet is exhausted
// or an error occurred; check Err after the loop.
func (it *RowIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.rows.Next() {
		it.err = it.rows.Error()
		return false
	}

	cells, err := it.rows.Columns()
	if err != nil {
		it.err = err
		return false
	}

	it.number++
	it.current = RawRow{Number: it.number, Cells: cells}
	return true
}

// Row returns the current row. Only valid after Next returned true.
func (it *RowIterator) Row() RawRow {
	return it.current
}

// Err returns the first error encountered during iteration.
func (it *RowIterator) Err() error {
	return it.err
}

// Close releases iterator resources.
func (it *RowIterator) Close() error {
	return it.rows.Close()
}
