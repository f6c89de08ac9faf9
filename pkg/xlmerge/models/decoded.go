// Package models defines data structures shared by the merge pipeline.
package models

// Sheet is one worksheet as returned by a decoder, in the workbook's native order.
type Sheet struct {
	// Name is the worksheet name.
	Name string `json:"name"`
	// Rows holds every cell coerced to text, row-major. Rows may be ragged.
	Rows [][]string `json:"rows"`
}
