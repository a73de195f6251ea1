/*
Package table implements an immutable relational table over JSON values.

A Table is a list of named columns and a list of rows. Rows can be addressed
by a zero based offset or, when the table declares a primary key, by the key
value of the row. Column names preserve their case but all lookups are case
insensitive. Every operator returns a new Table; receivers are never
modified.
*/
package table

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CurrentVersion is the version written into serialized tables.
const CurrentVersion = 1

// ErrNoColumns indicates a table was defined without columns and with no
// rows to infer column names from.
var ErrNoColumns = errors.New("no columns defined and none can be inferred")

// ErrRaggedRows indicates a row's length differs from the column count.
var ErrRaggedRows = errors.New("row length does not match column count")

// ErrUnknownColumn indicates a referenced column does not exist.
var ErrUnknownColumn = errors.New("unknown column")

// ErrRowNotFound indicates no row matched the requested key or index.
var ErrRowNotFound = errors.New("row not found")

// ErrColumnMismatch indicates two tables do not share an identical column
// list; Union, Intersect and Minus require one.
var ErrColumnMismatch = errors.New("tables have different columns")

// Definition describes a Table to construct. Columns may be omitted when
// Rows is non-empty, in which case names c0..cN are generated. PrimaryKey,
// Name, Comment and Version are optional; Version defaults to
// CurrentVersion.
type Definition struct {
	Name       string
	Comment    string
	Version    int
	Columns    []string
	PrimaryKey string
	Rows       [][]interface{}
}

// Table is an immutable relational table.
type Table struct {
	columns []string
	index   map[string]int // lower cased column name -> offset
	rows    [][]interface{}
	keys    map[string]int // canonical primary key value -> row offset
	pk      string         // primary key column, case preserved
	pkIndex int
	name    string
	comment string
	version int
}

// New constructs a Table from def.
func New(def Definition) (*Table, error) {
	t := &Table{
		name:    def.Name,
		comment: def.Comment,
		version: def.Version,
		pkIndex: -1,
	}
	if t.version == 0 {
		t.version = CurrentVersion
	}

	t.rows = make([][]interface{}, len(def.Rows))
	copy(t.rows, def.Rows)

	if def.Columns != nil {
		t.columns = make([]string, len(def.Columns))
		copy(t.columns, def.Columns)
	} else {
		if len(t.rows) == 0 || len(t.rows[0]) == 0 {
			return nil, ErrNoColumns
		}
		for i := range t.rows[0] {
			t.columns = append(t.columns, "c"+strconv.Itoa(i))
		}
	}

	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		t.index[strings.ToLower(c)] = i
	}

	for i, r := range t.rows {
		if len(r) != len(t.columns) {
			return nil, errors.Wrapf(ErrRaggedRows, "row %d has %d values, want %d", i, len(r), len(t.columns))
		}
	}

	if def.PrimaryKey != "" {
		i, ok := t.index[strings.ToLower(def.PrimaryKey)]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownColumn, "primary key %q", def.PrimaryKey)
		}
		t.pk = def.PrimaryKey
		t.pkIndex = i
		t.keys = make(map[string]int, len(t.rows))
		for j, r := range t.rows {
			t.keys[canonical(r[i])] = j
		}
	}

	return t, nil
}

// Name returns the name of the table, if it has one.
func (t *Table) Name() string { return t.name }

// Comment returns the comment describing the table, if it has one.
func (t *Table) Comment() string { return t.comment }

// Version returns the serialization format version of the table.
func (t *Table) Version() int { return t.version }

// PrimaryKey returns the primary key column name, or "" when the table has
// no primary key.
func (t *Table) PrimaryKey() string { return t.pk }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the list of column names, case preserved.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Rows returns all rows. The inner slices are shared with the table and
// must not be modified.
func (t *Table) Rows() [][]interface{} {
	rows := make([][]interface{}, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// RowByIndex returns the nth row.
func (t *Table) RowByIndex(n int) (Row, error) {
	if n < 0 || n >= len(t.rows) {
		return Row{}, errors.Wrapf(ErrRowNotFound, "index %d", n)
	}
	return NewRow(t.columns, t.rows[n]), nil
}

// RowByKey returns the row whose primary key matches key. Keys are matched
// on their canonical string form, so 1 and "1" address the same row.
func (t *Table) RowByKey(key interface{}) (Row, error) {
	if t.pk == "" {
		return Row{}, errors.Wrap(ErrRowNotFound, "table has no primary key")
	}
	n, ok := t.keys[canonical(key)]
	if !ok {
		return Row{}, errors.Wrapf(ErrRowNotFound, "key %v", key)
	}
	return NewRow(t.columns, t.rows[n]), nil
}

// Row returns the row matching id. When id is an int that is not present in
// the primary key index it is treated as a row offset, otherwise it is
// treated as a primary key value.
func (t *Table) Row(id interface{}) (Row, error) {
	if n, ok := id.(int); ok {
		if _, keyed := t.keys[canonical(n)]; !keyed {
			return t.RowByIndex(n)
		}
	}
	return t.RowByKey(id)
}

// RowAsList returns the values of the row matching id.
func (t *Table) RowAsList(id interface{}) ([]interface{}, error) {
	r, err := t.Row(id)
	if err != nil {
		return nil, err
	}
	return r.Values(), nil
}

// Each calls fn for every row in order. Iteration stops at the first error.
func (t *Table) Each(fn func(Row) error) error {
	for _, r := range t.rows {
		if err := fn(NewRow(t.columns, r)); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether t and other have the same columns and the same rows,
// ignoring row order, primary keys and metadata. Numbers compare by value,
// so int 1 equals float64 1.
func (t *Table) Equal(other *Table) bool {
	if other == nil {
		return false
	}
	if len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i, c := range t.columns {
		if other.columns[i] != c {
			return false
		}
	}
	for _, r := range t.rows {
		if !rowsContain(other.rows, r) {
			return false
		}
	}
	return true
}

// WithName returns a copy of t named name.
func (t *Table) WithName(name string) *Table {
	c := *t
	c.name = name
	return &c
}

// WithComment returns a copy of t with the descriptive comment set.
func (t *Table) WithComment(comment string) *Table {
	c := *t
	c.comment = comment
	return &c
}

// column resolves name to a column offset, case insensitively, trimming
// surrounding whitespace.
func (t *Table) column(name string) (int, error) {
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
	return i, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
