package xlmerge

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/parser"
)

// Emit encodes sheets and saves the workbook to dest. Any failure is a *WriteError.
func Emit(fsys billy.Filesystem, dest string, sheets []models.OutputSheet, opts Options) error {
	enc := opts.encoder()
	defer enc.Close()

	for _, sheet := range sheets {
		if err := encodeSheet(enc, sheet); err != nil {
			return err
		}
	}

	if opts.Atomic {
		return saveAtomic(fsys, dest, enc)
	}
	return save(fsys, dest, enc)
}

func encodeSheet(enc parser.Encoder, sheet models.OutputSheet) error {
	handle, err := enc.AddSheet(sheet.Name)
	if err != nil {
		return &WriteError{Sheet: sheet.Name, Row: -1, Err: err}
	}
	for row, cells := range sheet.Rows {
		if err := enc.WriteRow(handle, row, cells); err != nil {
			return &WriteError{Sheet: sheet.Name, Row: row, Err: err}
		}
	}
	return nil
}

func save(fsys billy.Filesystem, dest string, enc parser.Encoder) error {
	f, err := fsys.Create(dest)
	if err != nil {
		return &WriteError{Row: -1, Err: err}
	}
	if _, err := enc.WriteTo(f); err != nil {
		f.Close()
		return &WriteError{Row: -1, Err: fmt.Errorf("save %s: %w", dest, err)}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Row: -1, Err: fmt.Errorf("save %s: %w", dest, err)}
	}
	return nil
}

// saveAtomic writes next to dest and renames over it, so dest is either the
// previous file or the complete new workbook.
func saveAtomic(fsys billy.Filesystem, dest string, enc parser.Encoder) error {
	dir, base := filepath.Split(dest)
	tmp := fsys.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))

	if err := save(fsys, tmp, enc); err != nil {
		fsys.Remove(tmp)
		return err
	}
	if err := fsys.Rename(tmp, dest); err != nil {
		fsys.Remove(tmp)
		return &WriteError{Row: -1, Err: fmt.Errorf("rename %s: %w", tmp, err)}
	}
	return nil
}
