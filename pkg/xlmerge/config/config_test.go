package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[input]
folder = "'./in'"
delimiter = "_"

[output]
file = "merged.xlsx"
atomic = false

[merge]
workers = 3
reader = "stream"
on_decode_error = "skip"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "./in", cfg.Input.Folder)
	assert.Equal(t, "_", cfg.Input.Delimiter)
	assert.Equal(t, "merged.xlsx", cfg.Output.File)
	require.NotNil(t, cfg.Output.Atomic)
	assert.False(t, *cfg.Output.Atomic)
	assert.Equal(t, 3, cfg.Merge.Workers)
	assert.Equal(t, "stream", cfg.Merge.Reader)
	assert.Equal(t, "skip", cfg.Merge.OnDecodeError)
	assert.Empty(t, cfg.Merge.OnNamingError)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[input]\nfolders = \"x\"\n"))
	assert.Error(t, err)
}

func TestParseInvalidTOML(t *testing.T) {
	_, err := Parse([]byte("[input\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  File
		ok   bool
	}{
		{"complete", File{Input: Input{Folder: "in"}, Output: Output{File: "out.xlsx"}}, true},
		{"missing folder", File{Output: Output{File: "out.xlsx"}}, false},
		{"missing output", File{Input: Input{Folder: "in"}}, false},
		{"negative workers", File{Input: Input{Folder: "in"}, Output: Output{File: "o"}, Merge: Merge{Workers: -1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"a"`, "a"},
		{`'a b'`, "a b"},
		{`"a'`, `"a'`},
		{`"`, `"`},
		{"  plain ", "plain"},
		{`""`, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Unquote(tt.input), "Unquote(%q)", tt.input)
	}
}

func TestParseKeepsDelimiterWhitespace(t *testing.T) {
	tests := []struct {
		value    string
		expected string
	}{
		{`" - "`, " - "},
		{`"' _ '"`, " _ "},
		{`" "`, " "},
	}

	for _, tt := range tests {
		cfg, err := Parse([]byte("[input]\ndelimiter = " + tt.value + "\n"))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, cfg.Input.Delimiter, "delimiter = %s", tt.value)
	}

	cfg, err := Parse([]byte("[merge]\nlabel_prefix = \"no. \"\n"))
	require.NoError(t, err)
	assert.Equal(t, "no. ", cfg.Merge.LabelPrefix)
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, " a ", StripQuotes(`" a "`))
	assert.Equal(t, " a ", StripQuotes(" a "))
	assert.Equal(t, ` "a" `, StripQuotes(` "a" `))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("[input]\nfolder = \"in\"\n[output]\nfile = \"out.xlsx\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "in", cfg.Input.Folder)
	assert.Nil(t, cfg.Output.Atomic)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
