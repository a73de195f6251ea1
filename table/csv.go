package table

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// CSVOptions configures FromCSV. When HasHeader is set the first record
// provides the column names. Otherwise Columns is used when non-nil, and
// names c0..cN are generated as a last resort.
type CSVOptions struct {
	HasHeader bool
	Columns   []string
}

// FromCSV constructs a Table from RFC 4180 CSV data. All values are kept as
// strings.
func FromCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)

	var columns []string
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, errors.Wrap(err, "read csv header")
		}
		columns = header
	} else if opts.Columns != nil {
		columns = opts.Columns
	}

	var rows [][]interface{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv record")
		}
		row := make([]interface{}, len(record))
		for i, v := range record {
			row[i] = v
		}
		rows = append(rows, row)
	}

	return New(Definition{Columns: columns, Rows: rows})
}

// WriteCSV writes the table to w as RFC 4180 CSV, the column names first.
// Values are rendered on their canonical string form.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writer.Write(t.columns); err != nil {
		return errors.Wrap(err, "write csv header")
	}

	record := make([]string, len(t.columns))
	for _, r := range t.rows {
		for i, v := range r {
			record[i] = canonical(v)
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "write csv record")
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}
