// Package config loads the xlmerge TOML configuration file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "config.toml"

// Input is the [input] table.
type Input struct {
	Folder    string `toml:"folder"`
	Delimiter string `toml:"delimiter"`
}

// Output is the [output] table.
type Output struct {
	File   string `toml:"file"`
	Atomic *bool  `toml:"atomic"`
}

// Merge is the [merge] table.
type Merge struct {
	Workers       int    `toml:"workers"`
	Reader        string `toml:"reader"`
	LabelPrefix   string `toml:"label_prefix"`
	OnNamingError string `toml:"on_naming_error"`
	OnDecodeError string `toml:"on_decode_error"`
}

// File models config.toml.
type File struct {
	Input  Input  `toml:"input"`
	Output Output `toml:"output"`
	Merge  Merge  `toml:"merge"`
}

// Load reads and parses the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML bytes. Unknown keys are rejected and string values
// have one layer of surrounding quotes removed. The delimiter
// and label prefix keep their whitespace; every other value is also trimmed.
func Parse(data []byte) (*File, error) {
	var cfg File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.Input.Folder = Unquote(cfg.Input.Folder)
	cfg.Input.Delimiter = StripQuotes(cfg.Input.Delimiter)
	cfg.Output.File = Unquote(cfg.Output.File)
	cfg.Merge.Reader = Unquote(cfg.Merge.Reader)
	cfg.Merge.LabelPrefix = StripQuotes(cfg.Merge.LabelPrefix)
	cfg.Merge.OnNamingError = Unquote(cfg.Merge.OnNamingError)
	cfg.Merge.OnDecodeError = Unquote(cfg.Merge.OnDecodeError)
	return &cfg, nil
}

// Validate reports the first required key that is empty.
func (c *File) Validate() error {
	switch {
	case strings.TrimSpace(c.Input.Folder) == "":
		return fmt.Errorf("input.folder is required")
	case strings.TrimSpace(c.Output.File) == "":
		return fmt.Errorf("output.file is required")
	case c.Merge.Workers < 0:
		return fmt.Errorf("merge.workers must not be negative")
	}
	return nil
}

// Unquote trims whitespace, then strips one matching pair of surrounding
// single or double quotes.
func Unquote(s string) string {
	return StripQuotes(strings.TrimSpace(s))
}

// StripQuotes strips one matching pair of surrounding single or double quotes
// and leaves any other whitespace untouched.
func StripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
