package xlmerge

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// sheetSpec describes one worksheet of a generated fixture.
type sheetSpec struct {
	name string
	rows [][]string
}

// xlsxBytes builds a workbook with the given sheets in order.
func xlsxBytes(t *testing.T, sheets ...sheetSpec) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			values := make([]interface{}, len(row))
			for c, v := range row {
				values[c] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(s.name, cell, &values))
		}
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// fixtureFS returns an in-memory filesystem holding files under /in.
func fixtureFS(t *testing.T, files map[string][]byte) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/in", 0755))
	for name, data := range files {
		require.NoError(t, util.WriteFile(fsys, fsys.Join("/in", name), data, 0644))
	}
	return fsys
}

// quietOptions returns default options with logging discarded.
func quietOptions() Options {
	opts := DefaultOptions()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	opts.Logger = logger
	opts.InputDir = "/in"
	opts.Output = "/out/merged.xlsx"
	return opts
}

// readOutput opens the merged workbook from fsys.
func readOutput(t *testing.T, fsys billy.Filesystem, path string) *excelize.File {
	t.Helper()
	data, err := util.ReadFile(fsys, path)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
