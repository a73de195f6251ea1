// Package source loads tables from files and readers and keeps the
// loaded set in a Catalog for the CLI and the HTTP frontend.
package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsondb/jsondb/table"
)

// Format identifies the on-disk encoding of a table.
type Format string

const (
	// FormatAuto selects a format from the file extension, defaulting to JSON.
	FormatAuto Format = ""

	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat indicates a format that no decoder handles.
var ErrUnknownFormat = errors.New("unknown table format")

// Options control decoding of non-JSON formats.
type Options struct {
	Format Format

	// CSVHasHeader indicates the first CSV record holds column names.
	CSVHasHeader bool

	// CSVColumns overrides column names for headerless CSV input.
	CSVColumns []string
}

// FromFile reads a table from path. With FormatAuto the format is taken from
// the file extension.
func FromFile(path string, opts Options) (*table.Table, error) {
	format := opts.Format
	if format == FormatAuto {
		format = formatForPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	t, err := FromReader(f, format, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	// Tables without an embedded name take it from the file.
	if t.Name() == "" {
		t = t.WithName(nameForPath(path))
	}

	return t, nil
}

// FromReader decodes a table from r in the given format. FormatAuto is
// treated as JSON.
func FromReader(r io.Reader, format Format, opts Options) (*table.Table, error) {
	switch format {
	case FormatAuto, FormatJSON:
		return table.Decode(r)

	case FormatCSV:
		return table.FromCSV(r, table.CSVOptions{
			HasHeader: opts.CSVHasHeader,
			Columns:   opts.CSVColumns,
		})

	case FormatYAML:
		return table.FromYAML(r)

	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

func formatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// nameForPath derives a table name from the file basename without its
// extension.
func nameForPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
