package parser

import (
	"fmt"
	"io"

	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
	"github.com/xuri/excelize/v2"
)

// Decoder turns a workbook byte stream into its sheets in native order.
type Decoder interface {
	Decode(r io.Reader) ([]models.Sheet, error)
}

// GridDecoder decodes a whole workbook into memory with excelize.
// Cells are returned as stored, the same text StreamDecoder yields.
type GridDecoder struct {
	// Formatted applies each cell's number format, e.g. "1.50" instead of "1.5".
	Formatted bool
}

// Decode implements Decoder.
func (d GridDecoder) Decode(r io.Reader) ([]models.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ExtractSheets(f, d.Formatted)
}

// ExtractSheets extracts every sheet of an open workbook, in workbook order.
func ExtractSheets(f *excelize.File, formatted bool) ([]models.Sheet, error) {
	sheetList := f.GetSheetList()
	sheets := make([]models.Sheet, 0, len(sheetList))
	for _, sheetName := range sheetList {
		rows, err := ExtractCells(f, sheetName, formatted)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		sheets = append(sheets, models.Sheet{Name: sheetName, Rows: rows})
	}
	return sheets, nil
}

// ExtractCells extracts the text of every cell in a sheet.
// Leading empty rows are kept so row positions match the sheet.
func ExtractCells(f *excelize.File, sheetName string, formatted bool) ([][]string, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: !formatted})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}
