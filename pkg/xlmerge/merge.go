package xlmerge

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
)

// Merge runs discovery, concurrent ingestion and the merge-write pass.
// Nothing is written unless every earlier stage succeeded.
func Merge(ctx context.Context, fsys billy.Filesystem, opts Options) (*models.Report, error) {
	log := opts.logger()
	if opts.InputDir == "" {
		return nil, &ConfigError{Key: "input.folder", Err: errMissing}
	}
	if opts.Output == "" {
		return nil, &ConfigError{Key: "output.file", Err: errMissing}
	}
	log.WithField("dir", opts.InputDir).Info("input folder")
	log.WithField("file", opts.Output).Info("output file")

	files, namingFailures, err := Discover(fsys, opts.InputDir, opts)
	if err != nil {
		return nil, err
	}

	table := NewTable(len(files))
	decodeFailures, err := Ingest(ctx, fsys, files, table, opts)
	if err != nil {
		return nil, err
	}
	view := table.Freeze()

	log.WithField("sheets", view.SheetCount()).Info("start output")
	sheets := Layout(view, opts)
	if err := Emit(fsys, opts.Output, sheets, opts); err != nil {
		return nil, err
	}
	log.Info("end output")

	report := &models.Report{
		Files:    ingested(files, decodeFailures),
		Sheets:   len(sheets),
		Failures: append(namingFailures, decodeFailures...),
		Output:   opts.Output,
	}
	summarize(log, report)
	return report, nil
}

func summarize(log logrus.FieldLogger, report *models.Report) {
	log.WithFields(logrus.Fields{
		"files":   len(report.Files),
		"sheets":  report.Sheets,
		"skipped": len(report.Failures),
	}).Info("merge complete")
	for _, f := range report.Failures {
		log.WithFields(logrus.Fields{"file": f.File, "kind": f.Kind}).Warnf("skipped: %v", f.Err)
	}
}

// ingested drops the files whose decode failure was skipped.
func ingested(files []models.InputFile, skipped []models.Failure) []models.InputFile {
	if len(skipped) == 0 {
		return files
	}
	drop := make(map[string]bool, len(skipped))
	for _, f := range skipped {
		drop[f.File] = true
	}
	out := make([]models.InputFile, 0, len(files)-len(skipped))
	for _, f := range files {
		if !drop[f.Name] {
			out = append(out, f)
		}
	}
	return out
}
