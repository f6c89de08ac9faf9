package xlmerge

import (
	"context"
	"errors"

	"github.com/go-git/go-billy/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/parser"
	"golang.org/x/sync/errgroup"
)

// Ingest decodes every file on a bounded worker pool and inserts one record
// per sheet into table. It returns once every worker has finished.
//
// Under ActionAbort the first failure cancels the pool and is returned as a
// *WorkerFailure. Under ActionSkip failures are logged and returned in file
// order, and the run continues without their records.
func Ingest(ctx context.Context, fsys billy.Filesystem, files []models.InputFile, table *Table, opts Options) ([]models.Failure, error) {
	log := opts.logger()
	dec, err := opts.decoder()
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workerCount(len(files)))

	// each worker writes only its own index
	failures := make([]error, len(files))
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := ingestFile(fsys, dec, file, table, log)
			if err == nil {
				return nil
			}
			failure := &WorkerFailure{File: file.Name, Ordinal: file.Ordinal, Err: err}
			if opts.Policy.Decode != ActionSkip || !errors.Is(err, ErrDecode) {
				return failure
			}
			log.WithField("file", file.Name).Warnf("skipping input: %v", err)
			failures[i] = failure
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		skipped []models.Failure
		errs    *multierror.Error
	)
	for i, err := range failures {
		if err == nil {
			continue
		}
		errs = multierror.Append(errs, err)
		skipped = append(skipped, models.Failure{File: files[i].Name, Kind: "decode", Err: err})
	}
	if errs != nil {
		errs.ErrorFormat = formatErrors
		log.Warnf("ingest finished with skipped inputs: %v", errs)
	}
	return skipped, nil
}

// ingestFile decodes one file and inserts its sheets at their native position.
func ingestFile(fsys billy.Filesystem, dec parser.Decoder, file models.InputFile, table *Table, log logrus.FieldLogger) error {
	log = log.WithFields(logrus.Fields{"file": file.Name, "ordinal": file.Ordinal})
	log.Info("reading file")

	records, err := decodeFile(fsys, dec, file)
	if err != nil {
		return err
	}
	for sheetOrdinal, rec := range records {
		log.WithFields(logrus.Fields{
			"sheet": rec.SheetName,
			"rows":  rec.RowCount,
			"cols":  rec.ColumnCount,
		}).Debug("sheet decoded")
		if err := table.Insert(sheetOrdinal, file.Ordinal, rec); err != nil {
			return err
		}
	}
	return nil
}

func decodeFile(fsys billy.Filesystem, dec parser.Decoder, file models.InputFile) ([]*models.SheetRecord, error) {
	f, err := fsys.Open(file.Path)
	if err != nil {
		return nil, &DecodeError{File: file.Name, Err: err}
	}
	defer f.Close()

	sheets, err := dec.Decode(f)
	if err != nil {
		return nil, &DecodeError{File: file.Name, Err: err}
	}

	records := make([]*models.SheetRecord, 0, len(sheets))
	for _, sheet := range sheets {
		rows, height, width := parser.CropToBounds(sheet.Rows)
		records = append(records, &models.SheetRecord{
			FileOrdinal: file.Ordinal,
			FileName:    file.Name,
			SheetName:   sheet.Name,
			RowCount:    height,
			ColumnCount: width,
			Rows:        rows,
		})
	}
	return records, nil
}
