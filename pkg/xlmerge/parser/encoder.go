package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Encoder receives merged sheets row by row and serializes the workbook.
type Encoder interface {
	// AddSheet appends a worksheet and returns its handle.
	AddSheet(name string) (int, error)
	// WriteRow writes cells starting at column A of the 0-based row.
	WriteRow(sheet, row int, cells []string) error
	// WriteTo serializes the workbook.
	WriteTo(w io.Writer) (int64, error)
	// Close releases the workbook.
	Close() error
}

// Workbook is an Encoder backed by excelize.
type Workbook struct {
	f      *excelize.File
	sheets []string
}

// NewWorkbook creates an empty workbook. excelize always carries one default
// sheet; it is renamed by the first AddSheet call.
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// AddSheet implements Encoder.
func (w *Workbook) AddSheet(name string) (int, error) {
	if len(w.sheets) == 0 {
		def := w.f.GetSheetName(0)
		if err := w.f.SetSheetName(def, name); err != nil {
			return -1, fmt.Errorf("rename sheet %q: %w", def, err)
		}
	} else {
		if _, err := w.f.NewSheet(name); err != nil {
			return -1, fmt.Errorf("add sheet %q: %w", name, err)
		}
	}
	w.sheets = append(w.sheets, name)
	return len(w.sheets) - 1, nil
}

// WriteRow implements Encoder.
func (w *Workbook) WriteRow(sheet, row int, cells []string) error {
	if sheet < 0 || sheet >= len(w.sheets) {
		return fmt.Errorf("unknown sheet handle %d", sheet)
	}
	if row+1 > excelize.TotalRows {
		return excelize.ErrMaxRows
	}
	if len(cells) > excelize.MaxColumns {
		return excelize.ErrColumnNumber
	}

	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, v := range cells {
		values[i] = v
	}
	return w.f.SetSheetRow(w.sheets[sheet], cell, &values)
}

// WriteTo implements Encoder.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.f.WriteTo(out)
}

// Close implements Encoder.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames returns the names added so far, in order.
func (w *Workbook) SheetNames() []string {
	return append([]string(nil), w.sheets...)
}
