package xlmerge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfig indicates missing or invalid configuration or an unreadable input directory.
var ErrConfig = errors.New("configuration error")

// ErrNaming indicates an input file name does not carry the ordinal prefix.
var ErrNaming = errors.New("naming error")

// ErrDecode indicates an input workbook could not be read.
var ErrDecode = errors.New("decode error")

// ErrWrite indicates a cell write or the final save failed.
var ErrWrite = errors.New("write error")

// ErrNoInput indicates the input directory holds no files.
var ErrNoInput = errors.New("no input files")

// errMissing marks a required configuration value that was not set.
var errMissing = errors.New("missing required value")

// ConfigError represents a configuration or directory listing failure.
type ConfigError struct {
	Key string // config key or path involved
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is reports ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NamingError represents a file name that does not match <integer><delimiter>...
type NamingError struct {
	File      string
	Delimiter string
	Reason    string // "missing delimiter" or "prefix is not an integer"
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("naming error in file %q: %s (expected <integer>%s...)", e.File, e.Reason, e.Delimiter)
}

// Is reports ErrNaming.
func (e *NamingError) Is(target error) bool { return target == ErrNaming }

// DecodeError represents an unreadable or corrupt input workbook.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error in file %q: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// WriteError represents a failure while emitting the merged workbook.
type WriteError struct {
	Sheet string // output sheet, empty for save failures
	Row   int    // 0-based output row, -1 when not row specific
	Err   error
}

func (e *WriteError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("write error: %v", e.Err)
	}
	if e.Row < 0 {
		return fmt.Sprintf("write error in sheet %q: %v", e.Sheet, e.Err)
	}
	return fmt.Sprintf("write error in sheet %q row %d: %v", e.Sheet, e.Row+1, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is reports ErrWrite.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// WorkerFailure wraps an error raised inside an ingest worker.
type WorkerFailure struct {
	File    string
	Ordinal int
	Err     error
}

func (e *WorkerFailure) Error() string {
	return fmt.Sprintf("worker for file %q (ordinal %d) failed: %v", e.File, e.Ordinal, e.Err)
}

func (e *WorkerFailure) Unwrap() error { return e.Err }

// formatErrors renders multierror lists on one line per error.
func formatErrors(errs []error) string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, "  * "+err.Error())
	}
	return fmt.Sprintf("%d error(s) occurred:\n%s", len(errs), strings.Join(lines, "\n"))
}
