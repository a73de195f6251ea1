package table

import (
	"sort"
	"strings"
)

// Predicate decides whether a row is kept by Restrict.
type Predicate func(Row) (bool, error)

// Extender produces new columns from a row for Extend and Summarize, or
// replacement values for Update.
type Extender func(Row) (Row, error)

// Restrict returns a new Table holding the rows pred returns true for. The
// primary key is preserved.
func (t *Table) Restrict(pred Predicate) (*Table, error) {
	var rows [][]interface{}
	for _, r := range t.rows {
		keep, err := pred(NewRow(t.columns, r))
		if err != nil {
			return nil, err
		}
		if keep {
			rows = append(rows, r)
		}
	}
	return New(Definition{Columns: t.columns, Rows: rows, PrimaryKey: t.pk})
}

// Project returns a new Table consisting solely of the named columns, in the
// requested order. The primary key survives only when projected.
func (t *Table) Project(columns []string) (*Table, error) {
	indices := make([]int, len(columns))
	names := make([]string, len(columns))
	pk := ""
	for i, c := range columns {
		idx, err := t.column(c)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
		names[i] = strings.TrimSpace(c)
		if t.pk != "" && idx == t.pkIndex {
			pk = t.pk
		}
	}

	rows := make([][]interface{}, len(t.rows))
	for i, r := range t.rows {
		row := make([]interface{}, len(indices))
		for j, idx := range indices {
			row[j] = r[idx]
		}
		rows[i] = row
	}

	return New(Definition{Columns: names, Rows: rows, PrimaryKey: pk})
}

// Rename returns a new Table with columns renamed per the old to new name
// mapping. Old names match case insensitively; unmapped columns are kept.
// A renamed primary key follows the rename.
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	renames := make(map[string]string, len(mapping))
	for old, name := range mapping {
		renames[strings.ToLower(old)] = name
	}

	columns := make([]string, len(t.columns))
	for i, c := range t.columns {
		if name, ok := renames[strings.ToLower(c)]; ok {
			columns[i] = name
		} else {
			columns[i] = c
		}
	}

	pk := t.pk
	if pk != "" {
		if name, ok := renames[strings.ToLower(pk)]; ok {
			pk = name
		}
	}

	return New(Definition{Columns: columns, Rows: t.rows, PrimaryKey: pk})
}

// Extend returns a new Table with the columns of the row returned by fn
// appended to every row. The extension column set is fixed by the first row
// fn returns.
func (t *Table) Extend(fn Extender) (*Table, error) {
	var extColumns []string
	rows := make([][]interface{}, 0, len(t.rows))
	for _, r := range t.rows {
		ext, err := fn(NewRow(t.columns, r))
		if err != nil {
			return nil, err
		}
		if extColumns == nil {
			extColumns = ext.Columns()
		}
		rows = append(rows, append(append([]interface{}{}, r...), ext.Values()...))
	}

	if len(t.rows) == 0 {
		return New(Definition{Columns: t.columns, Rows: nil})
	}
	return New(Definition{Columns: append(t.Columns(), extColumns...), Rows: rows})
}

// Update returns a new Table where each row's values are replaced by the
// values fn returns for the columns they share. Columns fn does not mention
// keep their original value.
func (t *Table) Update(fn Extender) (*Table, error) {
	rows := make([][]interface{}, len(t.rows))
	for i, r := range t.rows {
		updated, err := fn(NewRow(t.columns, r))
		if err != nil {
			return nil, err
		}
		row := append([]interface{}{}, r...)
		um := make(map[string]interface{}, updated.Len())
		for k, v := range updated.Map() {
			um[strings.ToLower(k)] = v
		}
		for j, c := range t.columns {
			if v, ok := um[strings.ToLower(c)]; ok {
				row[j] = v
			}
		}
		rows[i] = row
	}
	return New(Definition{Columns: t.columns, Rows: rows, PrimaryKey: t.pk})
}

// Distinct returns a new Table with duplicate rows removed, preserving first
// occurrence order.
func (t *Table) Distinct() (*Table, error) {
	var rows [][]interface{}
	for _, r := range t.rows {
		if !rowsContain(rows, r) {
			rows = append(rows, r)
		}
	}
	return New(Definition{Columns: t.columns, Rows: rows})
}

// Union returns all rows appearing in either table, deduplicated. Both
// tables must have identical column lists.
func (t *Table) Union(other *Table) (*Table, error) {
	if !sameColumns(t.columns, other.columns) {
		return nil, ErrColumnMismatch
	}
	var rows [][]interface{}
	for _, r := range t.rows {
		if !rowsContain(rows, r) {
			rows = append(rows, r)
		}
	}
	for _, r := range other.rows {
		if !rowsContain(rows, r) {
			rows = append(rows, r)
		}
	}
	return New(Definition{Columns: t.columns, Rows: rows})
}

// Intersect returns the rows of t that also appear in other. Both tables
// must have identical column lists.
func (t *Table) Intersect(other *Table) (*Table, error) {
	if !sameColumns(t.columns, other.columns) {
		return nil, ErrColumnMismatch
	}
	var rows [][]interface{}
	for _, r := range t.rows {
		if rowsContain(other.rows, r) {
			rows = append(rows, r)
		}
	}
	return New(Definition{Columns: t.columns, Rows: rows})
}

// Minus returns the rows of t that do not appear in other. Both tables must
// have identical column lists.
func (t *Table) Minus(other *Table) (*Table, error) {
	if !sameColumns(t.columns, other.columns) {
		return nil, ErrColumnMismatch
	}
	var rows [][]interface{}
	for _, r := range t.rows {
		if !rowsContain(other.rows, r) {
			rows = append(rows, r)
		}
	}
	return New(Definition{Columns: t.columns, Rows: rows})
}

// OrderBy returns a copy of the table ordered by the named columns. A "-"
// prefix on a column sorts it descending. The sort is stable across the
// comparison cascade.
func (t *Table) OrderBy(columns []string) (*Table, error) {
	type sortKey struct {
		index int
		desc  bool
	}

	keys := make([]sortKey, 0, len(columns))
	for _, c := range columns {
		c = strings.TrimSpace(c)
		desc := strings.HasPrefix(c, "-")
		if desc {
			c = c[1:]
		}
		idx, err := t.column(c)
		if err != nil {
			return nil, err
		}
		keys = append(keys, sortKey{index: idx, desc: desc})
	}

	rows := make([][]interface{}, len(t.rows))
	copy(rows, t.rows)

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(rows[i][k.index], rows[j][k.index])
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})

	return New(Definition{Columns: t.columns, Rows: rows})
}

// Limit returns a new Table containing only the first n rows. The table
// name is preserved.
func (t *Table) Limit(n int) (*Table, error) {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return New(Definition{Name: t.name, Columns: t.columns, Rows: t.rows[:n]})
}

// Count returns a one row, one column table holding the row count.
func (t *Table) Count() (*Table, error) {
	return New(Definition{Columns: []string{"count"}, Rows: [][]interface{}{{len(t.rows)}}})
}
