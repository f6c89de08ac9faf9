package xlmerge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
)

// errFrozen is returned by Insert after Freeze.
var errFrozen = errors.New("aggregation table is frozen")

// Table collects sheet records keyed by sheet ordinal, then file ordinal.
//
// Workers call Insert concurrently, each with its own file ordinal, so every
// slot is written at most once. Nothing may be read until all workers have
// returned; Freeze then hands out a read-only View.
type Table struct {
	mu     sync.Mutex
	files  int
	slots  [][]*models.SheetRecord // [sheet][file], nil = absent
	frozen bool
}

// NewTable creates an empty table for the given number of input files.
func NewTable(files int) *Table {
	return &Table{files: files}
}

// Insert stores rec at (sheet, file). The lock covers only the slot assignment.
func (t *Table) Insert(sheet, file int, rec *models.SheetRecord) error {
	if rec == nil {
		return fmt.Errorf("nil record for slot (%d, %d)", sheet, file)
	}
	if sheet < 0 {
		return fmt.Errorf("sheet ordinal %d out of range", sheet)
	}
	if file < 0 || file >= t.files {
		return fmt.Errorf("file ordinal %d out of range [0, %d)", file, t.files)
	}

	// rows for new sheet ordinals are allocated before taking the lock; the
	// table only grows, so a retry needs no more rows than the last attempt
	var spare [][]*models.SheetRecord
	for {
		t.mu.Lock()
		missing := sheet + 1 - len(t.slots)
		if missing <= len(spare) {
			if missing > 0 && !t.frozen {
				t.slots = append(t.slots, spare[:missing]...)
			}
			break
		}
		t.mu.Unlock()
		spare = t.newRows(missing)
	}
	defer t.mu.Unlock()

	if t.frozen {
		return errFrozen
	}
	if t.slots[sheet][file] != nil {
		return fmt.Errorf("slot (%d, %d) already written", sheet, file)
	}
	t.slots[sheet][file] = rec
	return nil
}

func (t *Table) newRows(n int) [][]*models.SheetRecord {
	rows := make([][]*models.SheetRecord, n)
	for i := range rows {
		rows[i] = make([]*models.SheetRecord, t.files)
	}
	return rows
}

// Freeze stops further inserts and returns the read-only view.
func (t *Table) Freeze() *View {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frozen = true
	return &View{slots: t.slots}
}

// View is the frozen content of a Table.
type View struct {
	slots [][]*models.SheetRecord
}

// SheetCount returns one plus the highest sheet ordinal observed.
func (v *View) SheetCount() int {
	return len(v.slots)
}

// Get returns the records of one sheet ordinal indexed by file ordinal.
// Absent records are nil. The returned slice must not be modified.
func (v *View) Get(sheet int) []*models.SheetRecord {
	if sheet < 0 || sheet >= len(v.slots) {
		return nil
	}
	return v.slots[sheet]
}
