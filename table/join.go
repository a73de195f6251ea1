package table

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrAmbiguousJoin indicates the tables share more than one column name so
// the join column cannot be inferred.
var ErrAmbiguousJoin = errors.New("multiple shared columns, join column must be specified")

// ErrNoJoinColumn indicates the tables share no column name and none was
// specified. Cartesian joins are not supported.
var ErrNoJoinColumn = errors.New("no shared column to join on")

// JoinOptions configures Join. When Left is empty the join column is
// inferred from the single column name the tables share. Right defaults to
// Left.
type JoinOptions struct {
	// Outer pads left rows that have no match with nulls instead of
	// dropping them.
	Outer bool

	Left  string
	Right string
}

// Join joins two tables on a single column equality and returns the result.
// The result holds the left table's columns followed by the right table's
// columns minus the right join column, and has no primary key.
//
// When the right join column is the right table's primary key the match is
// a key index lookup rather than a scan.
func (t *Table) Join(other *Table, opts JoinOptions) (*Table, error) {
	left := opts.Left
	right := opts.Right
	if left == "" {
		shared, err := sharedColumn(t, other)
		if err != nil {
			return nil, err
		}
		left, right = shared, shared
	} else if right == "" {
		right = left
	}

	leftIdx, err := t.column(left)
	if err != nil {
		return nil, err
	}
	rightIdx, err := other.column(right)
	if err != nil {
		return nil, err
	}

	columns := mergeColumns(t.columns, other.columns, rightIdx)

	var nullRow []interface{}
	if opts.Outer {
		nullRow = make([]interface{}, len(other.columns))
	}

	// Key indexed lookup when joining against the other side's primary key.
	pkJoin := other.pk != "" && strings.EqualFold(right, other.pk)

	var rows [][]interface{}
	for _, lrow := range t.rows {
		switch {
		case pkJoin:
			if n, ok := other.keys[canonical(lrow[leftIdx])]; ok {
				rows = append(rows, mergeRows(lrow, other.rows[n], rightIdx))
			} else if opts.Outer {
				rows = append(rows, mergeRows(lrow, nullRow, rightIdx))
			}

		default:
			found := false
			for _, rrow := range other.rows {
				if valueEqual(lrow[leftIdx], rrow[rightIdx]) {
					rows = append(rows, mergeRows(lrow, rrow, rightIdx))
					found = true
				}
			}
			if opts.Outer && !found {
				rows = append(rows, mergeRows(lrow, nullRow, rightIdx))
			}
		}
	}

	return New(Definition{Columns: columns, Rows: rows})
}

// InnerJoin joins on the inferred shared column, dropping unmatched left
// rows.
func (t *Table) InnerJoin(other *Table) (*Table, error) {
	return t.Join(other, JoinOptions{})
}

// OuterJoin joins on the inferred shared column, padding unmatched left rows
// with nulls.
func (t *Table) OuterJoin(other *Table) (*Table, error) {
	return t.Join(other, JoinOptions{Outer: true})
}

func sharedColumn(t, other *Table) (string, error) {
	var shared []string
	for name := range t.index {
		if _, ok := other.index[name]; ok {
			shared = append(shared, name)
		}
	}
	switch len(shared) {
	case 1:
		return shared[0], nil
	case 0:
		return "", ErrNoJoinColumn
	default:
		return "", ErrAmbiguousJoin
	}
}

// mergeRows concatenates two rows, leaving out right[skip].
func mergeRows(left, right []interface{}, skip int) []interface{} {
	merged := make([]interface{}, 0, len(left)+len(right)-1)
	merged = append(merged, left...)
	for i, v := range right {
		if i == skip {
			continue
		}
		merged = append(merged, v)
	}
	return merged
}

func mergeColumns(left, right []string, skip int) []string {
	merged := make([]string, 0, len(left)+len(right)-1)
	merged = append(merged, left...)
	for i, c := range right {
		if i == skip {
			continue
		}
		merged = append(merged, c)
	}
	return merged
}
