package table

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Row is an immutable view of a single table row. Lookups by column name are
// case insensitive.
type Row struct {
	columns []string
	values  []interface{}
	lookup  map[string]int
}

// NewRow constructs a Row from parallel lists of column names and values.
func NewRow(columns []string, values []interface{}) Row {
	lookup := make(map[string]int, len(columns))
	for i, c := range columns {
		lookup[strings.ToLower(c)] = i
	}
	return Row{columns: columns, values: values, lookup: lookup}
}

// RowFromMap constructs a Row from a map. Columns are ordered by sorted key
// so the result is deterministic.
func RowFromMap(m map[string]interface{}) Row {
	columns := make([]string, 0, len(m))
	for k := range m {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = m[c]
	}
	return NewRow(columns, values)
}

// Len returns the number of values in the row.
func (r Row) Len() int { return len(r.values) }

// Columns returns the case preserved column names of the row.
func (r Row) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Values returns the row values in column order.
func (r Row) Values() []interface{} {
	vals := make([]interface{}, len(r.values))
	copy(vals, r.values)
	return vals
}

// Lookup returns the value for the named column.
func (r Row) Lookup(column string) (interface{}, error) {
	i, ok := r.lookup[strings.ToLower(column)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", column)
	}
	return r.values[i], nil
}

// Index returns the value at offset i.
func (r Row) Index(i int) (interface{}, error) {
	if i < 0 || i >= len(r.values) {
		return nil, errors.Wrapf(ErrRowNotFound, "value %d of %d", i, len(r.values))
	}
	return r.values[i], nil
}

// Map returns the row as a column name to value map.
func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// Equal reports whether two rows hold the same columns and values,
// irrespective of column order. Numbers compare by value.
func (r Row) Equal(other Row) bool {
	if len(r.columns) != len(other.columns) {
		return false
	}
	om := other.Map()
	for i, c := range r.columns {
		v, ok := om[c]
		if !ok || !valueEqual(r.values[i], v) {
			return false
		}
	}
	return true
}
