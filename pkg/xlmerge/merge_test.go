package xlmerge

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func cell(t *testing.T, f *excelize.File, sheet, name string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, name)
	require.NoError(t, err)
	return v
}

func TestMergeTwoFiles(t *testing.T) {
	for _, reader := range []Reader{ReaderExcelize, ReaderStream} {
		t.Run(string(reader), func(t *testing.T) {
			fsys := fixtureFS(t, map[string][]byte{
				"1、a.xlsx": xlsxBytes(t, sheetSpec{"S", [][]string{{"a", "b"}, {"c", "d"}}}),
				"2、b.xlsx": xlsxBytes(t, sheetSpec{"S", [][]string{{"e", "f"}}}),
			})
			opts := quietOptions()
			opts.Reader = reader

			report, err := Merge(context.Background(), fsys, opts)
			require.NoError(t, err)
			assert.Equal(t, 1, report.Sheets)
			assert.Len(t, report.Files, 2)
			assert.Empty(t, report.Failures)

			f := readOutput(t, fsys, "/out/merged.xlsx")
			require.Equal(t, []string{"S"}, f.GetSheetList())

			expected := [][]string{
				{"index:0", "a", "b"},
				{"1、a.xlsx", "c", "d"},
				{""},
				{"index:1", "e", "f"},
				{""},
			}
			for r, row := range expected {
				for c, want := range row {
					name, err := excelize.CoordinatesToCellName(c+1, r+1)
					require.NoError(t, err)
					assert.Equal(t, want, cell(t, f, "S", name), name)
				}
			}
			assert.Equal(t, "", cell(t, f, "S", "D1"))
			assert.Equal(t, "", cell(t, f, "S", "A6"))
		})
	}
}

func TestMergeSingleFileSingleRow(t *testing.T) {
	fsys := fixtureFS(t, map[string][]byte{
		"1、only.xlsx": xlsxBytes(t, sheetSpec{"Data", [][]string{{"x", "y"}}}),
	})

	report, err := Merge(context.Background(), fsys, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sheets)

	f := readOutput(t, fsys, "/out/merged.xlsx")
	rows, err := f.GetRows("Data")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"index:0", "x", "y"}, rows[0])
}

func TestMergeSheetCountIsMaxOrdinalPlusOne(t *testing.T) {
	fsys := fixtureFS(t, map[string][]byte{
		"1、a.xlsx": xlsxBytes(t, sheetSpec{"A", [][]string{{"1"}}}),
		"2、b.xlsx": xlsxBytes(t,
			sheetSpec{"A", [][]string{{"2"}}},
			sheetSpec{"B", [][]string{{"2b"}}},
			sheetSpec{"C", [][]string{{"2c"}}}),
		"3、c.xlsx": xlsxBytes(t, sheetSpec{"A", [][]string{{"3"}}}, sheetSpec{"B", [][]string{{"3b"}}}),
	})

	report, err := Merge(context.Background(), fsys, quietOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Sheets)

	f := readOutput(t, fsys, "/out/merged.xlsx")
	assert.Equal(t, []string{"A", "unnamed-1", "unnamed-2"}, f.GetSheetList())

	// sheet 1: file 1 then file 2, file 0 absent
	assert.Equal(t, "index:1", cell(t, f, "unnamed-1", "A1"))
	assert.Equal(t, "2b", cell(t, f, "unnamed-1", "B1"))
	assert.Equal(t, "index:2", cell(t, f, "unnamed-1", "A3"))
	assert.Equal(t, "3b", cell(t, f, "unnamed-1", "B3"))
	assert.Equal(t, "2c", cell(t, f, "unnamed-2", "B1"))
}

func TestMergeNumericOrderNotLexical(t *testing.T) {
	files := map[string][]byte{}
	for _, name := range []string{"10、j.xlsx", "9、i.xlsx", "1、a.xlsx"} {
		files[name] = xlsxBytes(t, sheetSpec{"S", [][]string{{name}}})
	}
	fsys := fixtureFS(t, files)

	_, err := Merge(context.Background(), fsys, quietOptions())
	require.NoError(t, err)

	f := readOutput(t, fsys, "/out/merged.xlsx")
	assert.Equal(t, "1、a.xlsx", cell(t, f, "S", "B1"))
	assert.Equal(t, "9、i.xlsx", cell(t, f, "S", "B3"))
	assert.Equal(t, "10、j.xlsx", cell(t, f, "S", "B5"))
}

func TestMergeNamingErrorWritesNothing(t *testing.T) {
	fsys := fixtureFS(t, map[string][]byte{
		"1、a.xlsx":  xlsxBytes(t, sheetSpec{"S", [][]string{{"a"}}}),
		"readme.md": []byte("hello"),
	})

	_, err := Merge(context.Background(), fsys, quietOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNaming)

	_, statErr := fsys.Stat("/out/merged.xlsx")
	assert.Error(t, statErr)
}

func TestMergeDecodeErrorAborts(t *testing.T) {
	fsys := fixtureFS(t, map[string][]byte{
		"1、a.xlsx": xlsxBytes(t, sheetSpec{"S", [][]string{{"a"}}}),
		"2、b.xlsx": []byte("not a workbook"),
	})

	_, err := Merge(context.Background(), fsys, quietOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)

	_, statErr := fsys.Stat("/out/merged.xlsx")
	assert.Error(t, statErr)
}

func TestMergeSkipPolicies(t *testing.T) {
	fsys := fixtureFS(t, map[string][]byte{
		"1、a.xlsx":  xlsxBytes(t, sheetSpec{"S", [][]string{{"a"}}}),
		"2、b.xlsx":  []byte("not a workbook"),
		"3、c.xlsx":  xlsxBytes(t, sheetSpec{"S", [][]string{{"c"}}}),
		"notes.txt": []byte("x"),
	})
	opts := quietOptions()
	opts.Policy = Policy{Naming: ActionSkip, Decode: ActionSkip}

	report, err := Merge(context.Background(), fsys, opts)
	require.NoError(t, err)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "notes.txt", report.Failures[0].File)
	assert.Equal(t, "2、b.xlsx", report.Failures[1].File)
	assert.Len(t, report.Files, 2)

	f := readOutput(t, fsys, "/out/merged.xlsx")
	assert.Equal(t, "a", cell(t, f, "S", "B1"))
	assert.Equal(t, "index:2", cell(t, f, "S", "A3"))
	assert.Equal(t, "c", cell(t, f, "S", "B3"))
}

func TestMergeEmptyDirectory(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/in", 0755))

	for i := 0; i < 2; i++ {
		_, err := Merge(context.Background(), fsys, quietOptions())
		assert.ErrorIs(t, err, ErrNoInput)
	}
	_, statErr := fsys.Stat("/out/merged.xlsx")
	assert.Error(t, statErr)
}

func TestMergeMissingOptions(t *testing.T) {
	opts := quietOptions()
	opts.Output = ""
	_, err := Merge(context.Background(), memfs.New(), opts)
	assert.ErrorIs(t, err, ErrConfig)

	opts = quietOptions()
	opts.InputDir = ""
	_, err = Merge(context.Background(), memfs.New(), opts)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestMergeDeterministicAcrossRuns(t *testing.T) {
	files := map[string][]byte{}
	for i, key := range []string{"a", "b", "c", "d", "e", "f"} {
		name := string(rune('1'+i)) + "、" + key + ".xlsx"
		files[name] = xlsxBytes(t, sheetSpec{"S", [][]string{{key}, {key + "2"}}})
	}

	var first [][]string
	for run := 0; run < 3; run++ {
		fsys := fixtureFS(t, files)
		opts := quietOptions()
		opts.Workers = 6
		_, err := Merge(context.Background(), fsys, opts)
		require.NoError(t, err)

		rows, err := readOutput(t, fsys, "/out/merged.xlsx").GetRows("S")
		require.NoError(t, err)
		if first == nil {
			first = rows
			continue
		}
		assert.Equal(t, first, rows)
	}
	assert.Equal(t, "index:5", first[15][0])
}
