// Package main provides the CLI entry point for xlmerge.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/config"
)

var (
	configPath    string
	inputDir      string
	outputPath    string
	delimiter     string
	workers       int
	reader        string
	onNamingError string
	onDecodeError string
	noAtomic      bool
	logLevel      string
	logFormat     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlmerge",
		Short: "Merge the sheets of every workbook in a folder into one workbook",
		Long: `xlmerge reads every workbook in the input folder, ordered by the number
before the delimiter in each file name, and concatenates sheets at the same
position into one output sheet. Each block is labeled with its index and
source file name.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", config.DefaultPath, "TOML config file")
	flags.StringVarP(&inputDir, "input", "i", "", "Input folder (overrides input.folder)")
	flags.StringVarP(&outputPath, "output", "o", "", "Output workbook (overrides output.file)")
	flags.StringVar(&delimiter, "delimiter", "", "Separator after the numeric file prefix (default \"、\")")
	flags.IntVarP(&workers, "workers", "w", 0, "Maximum concurrent readers (default: number of CPUs)")
	flags.StringVar(&reader, "reader", "", "Workbook reader: excelize or stream")
	flags.StringVar(&onNamingError, "on-naming-error", "", "Invalid file names: abort or skip")
	flags.StringVar(&onDecodeError, "on-decode-error", "", "Unreadable workbooks: abort or skip")
	flags.BoolVar(&noAtomic, "no-atomic", false, "Write the output in place instead of via a temporary file")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "xlmerge:", err)
		return err
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		logger.WithError(err).Error("invalid configuration")
		return err
	}
	opts.Logger = logger

	// osfs rooted at / needs absolute paths
	if opts.InputDir, err = filepath.Abs(opts.InputDir); err != nil {
		return fmt.Errorf("resolve input folder: %w", err)
	}
	if opts.Output, err = filepath.Abs(opts.Output); err != nil {
		return fmt.Errorf("resolve output file: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if _, err := xlmerge.Merge(ctx, osfs.New("/"), opts); err != nil {
		logger.WithError(err).Error("merge failed")
		return err
	}
	return nil
}

// buildOptions layers command-line flags over the config file.
func buildOptions(cmd *cobra.Command) (xlmerge.Options, error) {
	opts := xlmerge.DefaultOptions()

	cfg := &config.File{}
	loaded, err := config.Load(configPath)
	switch {
	case err == nil:
		cfg = loaded
	case !errors.Is(err, fs.ErrNotExist):
		return opts, &xlmerge.ConfigError{Key: configPath, Err: err}
	case cmd.Flags().Changed("config"), inputDir == "" || outputPath == "":
		// a missing default config is fine when -i and -o are both given
		return opts, &xlmerge.ConfigError{Key: configPath, Err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input.Folder = inputDir
	}
	if flags.Changed("output") {
		cfg.Output.File = outputPath
	}
	if flags.Changed("delimiter") {
		cfg.Input.Delimiter = delimiter
	}
	if flags.Changed("workers") {
		cfg.Merge.Workers = workers
	}
	if flags.Changed("reader") {
		cfg.Merge.Reader = reader
	}
	if flags.Changed("on-naming-error") {
		cfg.Merge.OnNamingError = onNamingError
	}
	if flags.Changed("on-decode-error") {
		cfg.Merge.OnDecodeError = onDecodeError
	}
	if err := cfg.Validate(); err != nil {
		return opts, &xlmerge.ConfigError{Key: configPath, Err: err}
	}

	naming, err := xlmerge.ParseAction(cfg.Merge.OnNamingError)
	if err != nil {
		return opts, &xlmerge.ConfigError{Key: "merge.on_naming_error", Err: err}
	}
	decode, err := xlmerge.ParseAction(cfg.Merge.OnDecodeError)
	if err != nil {
		return opts, &xlmerge.ConfigError{Key: "merge.on_decode_error", Err: err}
	}

	opts.InputDir = cfg.Input.Folder
	opts.Output = cfg.Output.File
	if cfg.Input.Delimiter != "" {
		opts.Delimiter = cfg.Input.Delimiter
	}
	if cfg.Merge.LabelPrefix != "" {
		opts.LabelPrefix = cfg.Merge.LabelPrefix
	}
	if cfg.Merge.Reader != "" {
		opts.Reader = xlmerge.Reader(cfg.Merge.Reader)
	}
	opts.Workers = cfg.Merge.Workers
	opts.Policy = xlmerge.Policy{Naming: naming, Decode: decode}
	if cfg.Output.Atomic != nil {
		opts.Atomic = *cfg.Output.Atomic
	}
	if noAtomic {
		opts.Atomic = false
	}
	return opts, nil
}

func newLogger() (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", logLevel)
	}
	logger.SetLevel(level)

	switch logFormat {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be text or json)", logFormat)
	}
	return logger, nil
}
