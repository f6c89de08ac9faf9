// Package xlmerge merges the sheets of every workbook in a directory into one workbook.
package xlmerge

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/parser"
)

// Action selects how a class of input errors is handled.
type Action string

const (
	// ActionAbort fails the run on the first error.
	ActionAbort Action = "abort"
	// ActionSkip logs the error, excludes the input and continues.
	ActionSkip Action = "skip"
)

// ParseAction converts a config value to an Action. Empty means abort.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case "", ActionAbort:
		return ActionAbort, nil
	case ActionSkip:
		return ActionSkip, nil
	default:
		return "", fmt.Errorf("invalid error policy %q (must be abort or skip)", s)
	}
}

// Policy selects abort or skip per error kind. Write errors are always fatal.
type Policy struct {
	Naming Action
	Decode Action
}

// Reader selects the workbook decoder.
type Reader string

const (
	// ReaderExcelize loads each workbook with excelize.
	ReaderExcelize Reader = "excelize"
	// ReaderStream streams rows with xlsxreader.
	ReaderStream Reader = "stream"
)

// DefaultDelimiter separates the ordinal prefix from the rest of a file name.
const DefaultDelimiter = "、"

// DefaultLabelPrefix precedes the file ordinal in the first column of each block.
const DefaultLabelPrefix = "index:"

// Options configures a merge run.
type Options struct {
	// InputDir is the directory holding the input workbooks.
	InputDir string
	// Output is the destination workbook path.
	Output string
	// Delimiter separates the numeric prefix in file names. Defaults to DefaultDelimiter.
	Delimiter string
	// LabelPrefix is written before the file ordinal. Defaults to DefaultLabelPrefix.
	LabelPrefix string
	// Workers caps concurrent ingest workers. Zero or less means runtime.NumCPU().
	Workers int
	// Reader selects the decoder when Decoder is nil. Defaults to ReaderExcelize.
	Reader Reader
	// Decoder overrides Reader.
	Decoder parser.Decoder
	// NewEncoder overrides the excelize encoder.
	NewEncoder func() parser.Encoder
	// Policy selects abort or skip for naming and decode errors.
	Policy Policy
	// Atomic writes the output to a temporary file and renames it into place.
	Atomic bool
	// Logger receives progress markers. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// DefaultOptions returns default merge options.
func DefaultOptions() Options {
	return Options{
		Delimiter:   DefaultDelimiter,
		LabelPrefix: DefaultLabelPrefix,
		Reader:      ReaderExcelize,
		Policy:      Policy{Naming: ActionAbort, Decode: ActionAbort},
		Atomic:      true,
	}
}

func (o Options) delimiter() string {
	if o.Delimiter == "" {
		return DefaultDelimiter
	}
	return o.Delimiter
}

func (o Options) labelPrefix() string {
	if o.LabelPrefix == "" {
		return DefaultLabelPrefix
	}
	return o.LabelPrefix
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return logrus.StandardLogger()
	}
	return o.Logger
}

// workerCount returns min(files, cap), at least 1.
func (o Options) workerCount(files int) int {
	n := o.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if files < n {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (o Options) decoder() (parser.Decoder, error) {
	if o.Decoder != nil {
		return o.Decoder, nil
	}
	switch o.Reader {
	case "", ReaderExcelize:
		return parser.GridDecoder{}, nil
	case ReaderStream:
		return parser.StreamDecoder{}, nil
	default:
		return nil, &ConfigError{Key: "merge.reader", Err: fmt.Errorf("unknown reader %q (must be excelize or stream)", o.Reader)}
	}
}

func (o Options) encoder() parser.Encoder {
	if o.NewEncoder != nil {
		return o.NewEncoder()
	}
	return parser.NewWorkbook()
}
