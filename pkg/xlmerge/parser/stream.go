package parser

import (
	"fmt"
	"io"

	"github.com/thedatashed/xlsxreader"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
	"github.com/xuri/excelize/v2"
)

// StreamDecoder decodes a workbook with xlsxreader, reading rows from a
// channel instead of materializing the excelize document model.
type StreamDecoder struct{}

// Decode implements Decoder.
func (StreamDecoder) Decode(r io.Reader) ([]models.Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	xl, err := xlsxreader.NewReader(data)
	if err != nil {
		return nil, err
	}

	sheets := make([]models.Sheet, 0, len(xl.Sheets))
	for _, sheetName := range xl.Sheets {
		rows, err := streamRows(xl, sheetName)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		sheets = append(sheets, models.Sheet{Name: sheetName, Rows: rows})
	}
	return sheets, nil
}

// streamRows places every streamed cell at its own coordinates. xlsxreader
// omits empty rows and cells, so gaps are filled with empty text.
func streamRows(xl *xlsxreader.XlsxFile, sheetName string) ([][]string, error) {
	rows := [][]string{}
	var firstErr error
	for row := range xl.ReadRows(sheetName) {
		// drain the channel even after an error so the reader goroutine exits
		if firstErr != nil {
			continue
		}
		if row.Error != nil {
			firstErr = row.Error
			continue
		}
		rowIdx := row.Index - 1
		if rowIdx < 0 {
			continue
		}
		for len(rows) <= rowIdx {
			rows = append(rows, []string{})
		}
		for _, cell := range row.Cells {
			col, err := excelize.ColumnNameToNumber(cell.Column)
			if err != nil {
				firstErr = err
				break
			}
			line := rows[rowIdx]
			for len(line) < col {
				line = append(line, "")
			}
			line[col-1] = cell.Value
			rows[rowIdx] = line
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return rows, nil
}
