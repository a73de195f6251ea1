package table

import "strings"

// Summarize groups the table by the per columns, preserving first occurrence
// order of each group. The group columns appear in the result in the order
// they were requested.
//
// With a nil add function every group gains a single "count" column holding
// the number of rows in the group:
//
//	t.Summarize([]string{"a", "b"}, nil)
//
// With an add function, the values of each non-group column are collected
// into a list per group and the resulting row is passed to add. The columns
// of the row add returns extend the group columns:
//
//	t.Summarize([]string{"a"}, maxB) // maxB reads the "b" list
//
// An empty per list produces a single group spanning the whole table.
func (t *Table) Summarize(per []string, add Extender) (*Table, error) {
	group := make([]bool, len(t.columns))
	perIdx := make([]int, 0, len(per))
	perColumns := make([]string, 0, len(per))
	for _, c := range per {
		idx, err := t.column(c)
		if err != nil {
			return nil, err
		}
		group[idx] = true
		perIdx = append(perIdx, idx)
		perColumns = append(perColumns, strings.TrimSpace(c))
	}

	type bucket struct {
		key    []interface{}
		count  int
		values []interface{} // group columns hold scalars, others hold lists
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, r := range t.rows {
		var sb strings.Builder
		for _, i := range perIdx {
			sb.WriteString(canonical(r[i]))
			sb.WriteByte(0)
		}
		id := sb.String()

		b, ok := buckets[id]
		if !ok {
			b = &bucket{}
			for _, i := range perIdx {
				b.key = append(b.key, r[i])
			}
			for i, v := range r {
				if group[i] {
					b.values = append(b.values, v)
				} else {
					b.values = append(b.values, []interface{}{v})
				}
			}
			buckets[id] = b
			order = append(order, id)
		} else if add != nil {
			for i, v := range r {
				if !group[i] {
					b.values[i] = append(b.values[i].([]interface{}), v)
				}
			}
		}
		b.count++
	}

	var addColumns []string
	var rows [][]interface{}
	for _, id := range order {
		b := buckets[id]
		if add == nil {
			addColumns = []string{"count"}
			rows = append(rows, append(append([]interface{}{}, b.key...), b.count))
			continue
		}

		added, err := add(NewRow(t.columns, b.values))
		if err != nil {
			return nil, err
		}
		if addColumns == nil {
			addColumns = added.Columns()
		}
		rows = append(rows, append(append([]interface{}{}, b.key...), added.Values()...))
	}
	if addColumns == nil {
		addColumns = []string{"count"}
	}

	return New(Definition{Columns: append(perColumns, addColumns...), Rows: rows})
}
