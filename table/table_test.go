package table_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/jsondb/jsondb/table"
)

func mustNew(t *testing.T, def Definition) *Table {
	t.Helper()
	tbl, err := New(def)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func tableOne(t *testing.T) *Table {
	return mustNew(t, Definition{
		Columns:    []string{"a", "b"},
		Rows:       [][]interface{}{{1, 2}, {3, 4}},
		PrimaryKey: "a",
	})
}

func tableTwo(t *testing.T) *Table {
	return mustNew(t, Definition{
		Rows: [][]interface{}{{1, 2}, {3, 4}},
	})
}

func tableEmp(t *testing.T) *Table {
	return mustNew(t, Definition{
		Name:       "emp",
		Columns:    []string{"empno"},
		Rows:       [][]interface{}{{1}, {2}, {3}},
		PrimaryKey: "empno",
	})
}

func assertTablesEqual(t *testing.T, got, want *Table) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("tables differ:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		Name        string
		Def         Definition
		ExpectedErr error
	}{
		{
			Name: "WithPrimaryKey",
			Def: Definition{
				Columns:    []string{"a", "b"},
				Rows:       [][]interface{}{{1, 2}, {3, 4}},
				PrimaryKey: "a",
			},
		},
		{
			Name: "GeneratedColumns",
			Def:  Definition{Rows: [][]interface{}{{1, 2}, {3, 4}}},
		},
		{
			Name:        "UnknownPrimaryKey",
			Def:         Definition{Columns: []string{"a", "b"}, Rows: [][]interface{}{{1, 2}}, PrimaryKey: "c"},
			ExpectedErr: ErrUnknownColumn,
		},
		{
			Name:        "RaggedRows",
			Def:         Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}, {1, 2}}},
			ExpectedErr: ErrRaggedRows,
		},
		{
			Name:        "NoColumnsNoRows",
			Def:         Definition{Rows: [][]interface{}{}},
			ExpectedErr: ErrNoColumns,
		},
		{
			Name:        "NoColumnsEmptyRow",
			Def:         Definition{Rows: [][]interface{}{{}}},
			ExpectedErr: ErrNoColumns,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			tbl, err := New(tc.Def)

			if tc.ExpectedErr != nil {
				if !errors.Is(err, tc.ExpectedErr) {
					t.Fatalf("Expected: %v;\nReceived: %v", tc.ExpectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatal(err)
			}
			if tbl.Len() != len(tc.Def.Rows) {
				t.Fatalf("unexpected row count %d", tbl.Len())
			}
		})
	}
}

func TestVersionDefault(t *testing.T) {
	if v := tableOne(t).Version(); v != CurrentVersion {
		t.Fatalf("unexpected version %d", v)
	}
}

func TestLen(t *testing.T) {
	if n := tableOne(t).Len(); n != 2 {
		t.Fatalf("unexpected length %d", n)
	}
}

func TestName(t *testing.T) {
	if name := tableOne(t).Name(); name != "" {
		t.Fatalf("unexpected name %q", name)
	}
	if name := tableEmp(t).Name(); name != "emp" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestColumns(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b"}, tableOne(t).Columns()); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"c0", "c1"}, tableTwo(t).Columns()); diff != "" {
		t.Fatal(diff)
	}
}

func TestRows(t *testing.T) {
	want := [][]interface{}{{1, 2}, {3, 4}}
	if diff := cmp.Diff(want, tableOne(t).Rows()); diff != "" {
		t.Fatal(diff)
	}
}

func TestRow(t *testing.T) {
	tbl := tableOne(t)
	want := NewRow([]string{"a", "b"}, []interface{}{1, 2})

	cases := []struct {
		Name string
		ID   interface{}
	}{
		{Name: "KeyString", ID: "1"},
		{Name: "KeyInt", ID: 1},
		{Name: "Index", ID: 0},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			row, err := tbl.Row(tc.ID)
			if err != nil {
				t.Fatal(err)
			}
			if !row.Equal(want) {
				t.Fatalf("unexpected row %v", row.Map())
			}
		})
	}
}

func TestRowByIndex(t *testing.T) {
	row, err := tableOne(t).RowByIndex(1)
	if err != nil {
		t.Fatal(err)
	}
	if !row.Equal(NewRow([]string{"a", "b"}, []interface{}{3, 4})) {
		t.Fatalf("unexpected row %v", row.Map())
	}

	if _, err := tableOne(t).RowByIndex(5); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("Expected: %v;\nReceived: %v", ErrRowNotFound, err)
	}
}

func TestRowByKey(t *testing.T) {
	want := NewRow([]string{"a", "b"}, []interface{}{1, 2})

	row, err := tableOne(t).RowByKey("1")
	if err != nil {
		t.Fatal(err)
	}
	if !row.Equal(want) {
		t.Fatalf("unexpected row %v", row.Map())
	}

	row, err = tableOne(t).RowByKey(1)
	if err != nil {
		t.Fatal(err)
	}
	if !row.Equal(want) {
		t.Fatalf("unexpected row %v", row.Map())
	}

	if _, err := tableOne(t).RowByKey("9"); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("Expected: %v;\nReceived: %v", ErrRowNotFound, err)
	}

	if _, err := tableTwo(t).RowByKey("1"); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("Expected: %v;\nReceived: %v", ErrRowNotFound, err)
	}
}

func TestRowAsList(t *testing.T) {
	values, err := tableOne(t).RowAsList("1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]interface{}{1, 2}, values); diff != "" {
		t.Fatal(diff)
	}
}

func TestEach(t *testing.T) {
	var got [][]interface{}
	err := tableOne(t).Each(func(r Row) error {
		got = append(got, r.Values())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]interface{}{{1, 2}, {3, 4}}, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		Name  string
		A     Definition
		B     Definition
		Equal bool
	}{
		{
			Name:  "SameRows",
			A:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}, {2}}},
			B:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}, {2}}},
			Equal: true,
		},
		{
			Name:  "RowOrderIgnored",
			A:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{2}, {1}}},
			B:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}, {2}}},
			Equal: true,
		},
		{
			Name:  "PrimaryKeyIgnored",
			A:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}}, PrimaryKey: "a"},
			B:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}}},
			Equal: true,
		},
		{
			Name:  "NumbersCompareByValue",
			A:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{float64(1)}}},
			B:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}}},
			Equal: true,
		},
		{
			Name:  "DifferentColumns",
			A:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}}},
			B:     Definition{Columns: []string{"b"}, Rows: [][]interface{}{{1}}},
			Equal: false,
		},
		{
			Name:  "DifferentRows",
			A:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{1}}},
			B:     Definition{Columns: []string{"a"}, Rows: [][]interface{}{{2}}},
			Equal: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			a := mustNew(t, tc.A)
			b := mustNew(t, tc.B)
			if a.Equal(b) != tc.Equal {
				t.Fatalf("Equal = %v, want %v", !tc.Equal, tc.Equal)
			}
		})
	}
}

func TestRowLookupCaseInsensitive(t *testing.T) {
	tbl := mustNew(t, Definition{
		Columns: []string{"Name", "Age"},
		Rows:    [][]interface{}{{"alice", 30}},
	})

	row, err := tbl.RowByIndex(0)
	if err != nil {
		t.Fatal(err)
	}

	v, err := row.Lookup("name")
	if err != nil {
		t.Fatal(err)
	}
	if v != "alice" {
		t.Fatalf("unexpected value %v", v)
	}

	// Stored case is preserved even though lookups are insensitive.
	if diff := cmp.Diff([]string{"Name", "Age"}, row.Columns()); diff != "" {
		t.Fatal(diff)
	}
}

func TestRowFromMap(t *testing.T) {
	row := RowFromMap(map[string]interface{}{"b": 2, "a": 1})

	// Columns order by sorted key for determinism.
	if diff := cmp.Diff([]string{"a", "b"}, row.Columns()); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]interface{}{1, 2}, row.Values()); diff != "" {
		t.Fatal(diff)
	}
}

func TestWithNameAndComment(t *testing.T) {
	tbl := tableOne(t).WithName("numbers").WithComment("test data")
	if tbl.Name() != "numbers" || tbl.Comment() != "test data" {
		t.Fatalf("unexpected metadata %q %q", tbl.Name(), tbl.Comment())
	}

	// The original is untouched.
	if tableOne(t).Name() != "" {
		t.Fatal("receiver was modified")
	}
}
