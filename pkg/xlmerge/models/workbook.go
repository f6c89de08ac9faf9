package models

// InputFile is one discovered input workbook.
type InputFile struct {
	// Ordinal is the 0-based position in discovery order.
	Ordinal int `json:"ordinal"`
	// Key is the numeric prefix parsed from the file name.
	Key uint64 `json:"key"`
	// Name is the file name (no directory).
	Name string `json:"name"`
	// Path is the path passed to the filesystem when opening the file.
	Path string `json:"path"`
}

// Failure describes an input that was skipped under a skip policy.
type Failure struct {
	// File is the offending file name.
	File string `json:"file"`
	// Kind is "naming" or "decode".
	Kind string `json:"kind"`
	// Err is the underlying error.
	Err error `json:"-"`
}

// Report summarizes one merge run.
type Report struct {
	// Files lists the inputs that were ingested, in ordinal order.
	Files []InputFile `json:"files"`
	// Sheets is the number of output sheets written.
	Sheets int `json:"sheets"`
	// Failures lists skipped inputs in file order.
	Failures []Failure `json:"failures,omitempty"`
	// Output is the destination path.
	Output string `json:"output"`
}
