package xlmerge

import (
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmerge-go/pkg/xlmerge/models"
)

// Discover lists the regular files of dir and assigns each an ordinal from the
// integer before the delimiter in its name. Files are ordered by that integer,
// then by name, so ties are resolved the same way on every run.
//
// Every name is validated before returning. Under ActionAbort any invalid name
// fails discovery with all offending names reported; under ActionSkip they are
// returned as failures and left out of the result.
func Discover(fsys billy.Filesystem, dir string, opts Options) ([]models.InputFile, []models.Failure, error) {
	log := opts.logger()
	delim := opts.delimiter()

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, nil, &ConfigError{Key: "input.folder", Err: err}
	}

	var (
		files    []models.InputFile
		failures []models.Failure
		errs     *multierror.Error
	)
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		name := entry.Name()
		key, nerr := ordinalKey(name, delim)
		if nerr != nil {
			errs = multierror.Append(errs, nerr)
			failures = append(failures, models.Failure{File: name, Kind: "naming", Err: nerr})
			continue
		}
		files = append(files, models.InputFile{
			Key:  key,
			Name: name,
			Path: fsys.Join(dir, name),
		})
	}

	if errs != nil {
		if opts.Policy.Naming != ActionSkip {
			errs.ErrorFormat = formatErrors
			return nil, nil, errs.ErrorOrNil()
		}
		for _, f := range failures {
			log.WithField("file", f.File).Warnf("skipping input: %v", f.Err)
		}
	}

	if len(files) == 0 {
		return nil, failures, &ConfigError{Key: "input.folder", Err: ErrNoInput}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Key != files[j].Key {
			return files[i].Key < files[j].Key
		}
		return files[i].Name < files[j].Name
	})
	for i := range files {
		files[i].Ordinal = i
		if i > 0 && files[i].Key == files[i-1].Key {
			log.WithFields(logrus.Fields{
				"file":  files[i].Name,
				"other": files[i-1].Name,
			}).Warn("duplicate ordinal prefix, ordering by name")
		}
	}

	return files, failures, nil
}

// ordinalKey parses the numeric prefix of name.
func ordinalKey(name, delim string) (uint64, error) {
	prefix, _, found := strings.Cut(name, delim)
	if !found {
		return 0, &NamingError{File: name, Delimiter: delim, Reason: "missing delimiter"}
	}
	key, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, &NamingError{File: name, Delimiter: delim, Reason: "prefix is not an integer"}
	}
	return key, nil
}
