package xlmerge

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
)

// maxSheetNameLen is the Excel limit on worksheet name length.
const maxSheetNameLen = 31

// Layout builds one output sheet per sheet ordinal of the frozen view.
//
// Blocks follow file ordinal order. Each block is the record's rows shifted one
// column right; column 0 of its first row holds the sequence label and column 0
// of its second row holds the source file name. One blank row follows every block.
func Layout(view *View, opts Options) []models.OutputSheet {
	log := opts.logger()
	prefix := opts.labelPrefix()

	used := make(map[string]bool)
	sheets := make([]models.OutputSheet, 0, view.SheetCount())
	for sheetOrdinal := 0; sheetOrdinal < view.SheetCount(); sheetOrdinal++ {
		records := view.Get(sheetOrdinal)

		name := fmt.Sprintf("unnamed-%d", sheetOrdinal)
		if len(records) > 0 && records[0] != nil && records[0].SheetName != "" {
			name = records[0].SheetName
		}
		name = uniqueSheetName(name, used)

		out := models.OutputSheet{Name: name}
		for _, rec := range records {
			if rec == nil {
				continue
			}
			if records[0] != nil && rec.SheetName != records[0].SheetName {
				log.WithFields(logrus.Fields{
					"sheet": name,
					"file":  rec.FileName,
					"got":   rec.SheetName,
				}).Debug("sheet name differs at this position")
			}
			out.Rows = appendBlock(out.Rows, rec, prefix)
		}
		sheets = append(sheets, out)
	}
	return sheets
}

// appendBlock appends the rows of one record and its separator row.
func appendBlock(rows [][]string, rec *models.SheetRecord, prefix string) [][]string {
	for i := 0; i < rec.RowCount; i++ {
		var src []string
		if i < len(rec.Rows) {
			src = rec.Rows[i]
		}
		line := make([]string, len(src)+1)
		copy(line[1:], src)
		switch i {
		case 0:
			line[0] = prefix + strconv.Itoa(rec.FileOrdinal)
		case 1:
			line[0] = rec.FileName
		}
		rows = append(rows, line)
	}
	return append(rows, []string{""})
}

// uniqueSheetName truncates name to the Excel limit and suffixes " (n)" until
// it does not collide, case-insensitively, with a name already used.
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := truncateRunes(name, maxSheetNameLen)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
