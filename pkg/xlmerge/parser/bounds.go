// Package parser provides workbook decoding and encoding on top of excelize and xlsxreader.
package parser

// findDataBounds finds the bounding box of non-empty cells.
// All four values are -1 when the grid has no non-empty cell.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// CropToBounds returns the rows inside the bounding box of non-empty cells,
// together with its height and width. Interior empty rows are kept as empty
// slices so that len(result) equals the height. Trailing empty cells of a row
// are dropped.
func CropToBounds(rows [][]string) ([][]string, int, int) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return [][]string{}, 0, 0
	}

	height := maxRow - minRow + 1
	width := maxCol - minCol + 1
	out := make([][]string, 0, height)
	for rowIdx := minRow; rowIdx <= maxRow; rowIdx++ {
		row := rows[rowIdx]
		if len(row) <= minCol {
			out = append(out, []string{})
			continue
		}
		end := len(row)
		if end > maxCol+1 {
			end = maxCol + 1
		}
		cells := make([]string, end-minCol)
		copy(cells, row[minCol:end])
		out = append(out, trimTrailingEmpty(cells))
	}

	return out, height, width
}

func trimTrailingEmpty(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}
