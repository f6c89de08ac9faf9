package models

// SheetRecord is the decoded content of one worksheet from one input file.
// It is immutable once built; the aggregation table owns it after insertion.
type SheetRecord struct {
	// FileOrdinal is the position of the source file in discovery order.
	FileOrdinal int `json:"file_ordinal"`
	// FileName is the source file name (no directory).
	FileName string `json:"file_name"`
	// SheetName is the worksheet name in the source file.
	SheetName string `json:"sheet_name"`
	// RowCount is the bounding-box height. len(Rows) == RowCount.
	RowCount int `json:"row_count"`
	// ColumnCount is the bounding-box width.
	ColumnCount int `json:"column_count"`
	// Rows contains the cell text, row-major.
	Rows [][]string `json:"rows"`
}

// OutputSheet is one merged sheet ready to be encoded.
type OutputSheet struct {
	// Name is the output worksheet name.
	Name string `json:"name"`
	// Rows holds the label column followed by the shifted source columns.
	Rows [][]string `json:"rows"`
}
