package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/dana-cli/internal/common"
)

// DefaultSeparator is used when the configuration does not name one.
const DefaultSeparator = ","

// Options controls how a dataset file is read.
type Options struct {
	// Separator between fields of a delimited file. Aliases: "tab", "comma", "semicolon", "pipe".
	Separator string
	// Sheet selects the worksheet of an .xlsx file; empty means the first sheet.
	Sheet string
}

// DefaultOptions returns comma-separated reading of the first sheet.
func DefaultOptions() Options {
	return Options{Separator: DefaultSeparator}
}

// ResolveSeparator turns a configured separator into the single rune the CSV reader needs.
func ResolveSeparator(sep string) (rune, error) {
	const op = "dataset.ResolveSeparator"
	switch strings.ToLower(sep) {
	case "":
		return 0, common.E(common.ErrConfig, op, "forbidden separator (empty)")
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	if utf8.RuneCountInString(sep) != 1 {
		return 0, common.E(common.ErrConfig, op, "forbidden separator %q (must be a single character)", sep)
	}
	r, _ := utf8.DecodeRuneInString(sep)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, common.E(common.ErrConfig, op, "forbidden separator %q", sep)
	}
	return r, nil
}

// Load reads a CSV/TSV or .xlsx file into a Dataset.
func Load(path string, opt Options) (*Dataset, error) {
	const op = "dataset.Load"
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.Wrap(common.ErrNotFound, op, err, "unable to locate %s", path)
		}
		return nil, common.Wrap(common.ErrNotFound, op, err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, common.E(common.ErrNotFound, op, "unable to locate %s (is a directory)", path)
	}

	var ds *Dataset
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		ds, err = loadXLSX(path, opt.Sheet)
	} else {
		ds, err = loadDelimited(path, opt.Separator)
	}
	if err != nil {
		return nil, err
	}
	ds.Source = filepath.Base(path)
	return ds, nil
}

func loadDelimited(path, separator string) (*Dataset, error) {
	const op = "dataset.Load"
	comma, err := ResolveSeparator(separator)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, common.Wrap(common.ErrNotFound, op, err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = 0
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, common.E(common.ErrFormat, op, "%s is empty", filepath.Base(path))
		}
		return nil, common.Wrap(common.ErrFormat, op, err, "read header")
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, common.Wrap(common.ErrFormat, op, err, "read row %d", len(rows)+1)
		}
		rows = append(rows, rec)
	}
	return FromRows(header, rows)
}
