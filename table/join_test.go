package table_test

import (
	"errors"
	"testing"

	. "github.com/jsondb/jsondb/table"
)

func TestJoin(t *testing.T) {
	t1 := mustNew(t, Definition{
		Columns: []string{"a", "b"}, Rows: [][]interface{}{{1, 2}, {3, 4}}, PrimaryKey: "b",
	})
	t2 := mustNew(t, Definition{
		Columns: []string{"b", "c"}, Rows: [][]interface{}{{2, 1}, {4, 3}}, PrimaryKey: "b",
	})
	t3 := mustNew(t, Definition{
		Columns: []string{"a", "B"}, Rows: [][]interface{}{{1, 2}, {3, 4}}, PrimaryKey: "b",
	})
	t4 := mustNew(t, Definition{
		Columns: []string{"b", "c"}, Rows: [][]interface{}{{2, 1}, {2, 2}, {3, 1}, {4, 1}},
	})
	t5 := mustNew(t, Definition{
		Columns: []string{"b", "c"}, Rows: [][]interface{}{{2, 2}}, PrimaryKey: "b",
	})
	t6 := mustNew(t, Definition{
		Columns: []string{"b", "c"}, Rows: [][]interface{}{{1, 2}}, PrimaryKey: "b",
	})
	t7 := mustNew(t, Definition{
		Columns: []string{"d", "c"}, Rows: [][]interface{}{{2, 1}, {4, 3}}, PrimaryKey: "d",
	})

	cases := []struct {
		Name     string
		Run      func() (*Table, error)
		Expected Definition
	}{
		{
			Name:     "InferredColumnAgainstPrimaryKey",
			Run:      func() (*Table, error) { return t1.Join(t2, JoinOptions{}) },
			Expected: Definition{Columns: []string{"a", "b", "c"}, Rows: [][]interface{}{{1, 2, 1}, {3, 4, 3}}},
		},
		{
			Name:     "ExplicitColumnCaseInsensitive",
			Run:      func() (*Table, error) { return t3.Join(t2, JoinOptions{Left: "b"}) },
			Expected: Definition{Columns: []string{"a", "B", "c"}, Rows: [][]interface{}{{1, 2, 1}, {3, 4, 3}}},
		},
		{
			Name:     "DifferentColumnNames",
			Run:      func() (*Table, error) { return t3.Join(t7, JoinOptions{Left: "b", Right: "d"}) },
			Expected: Definition{Columns: []string{"a", "B", "c"}, Rows: [][]interface{}{{1, 2, 1}, {3, 4, 3}}},
		},
		{
			Name: "ScanJoinWithDuplicates",
			Run:  func() (*Table, error) { return t1.Join(t4, JoinOptions{}) },
			Expected: Definition{
				Columns: []string{"a", "b", "c"},
				Rows:    [][]interface{}{{1, 2, 1}, {1, 2, 2}, {3, 4, 1}},
			},
		},
		{
			Name:     "InnerDropsUnmatched",
			Run:      func() (*Table, error) { return t1.InnerJoin(t5) },
			Expected: Definition{Columns: []string{"a", "b", "c"}, Rows: [][]interface{}{{1, 2, 2}}},
		},
		{
			Name:     "InnerNoMatches",
			Run:      func() (*Table, error) { return t1.InnerJoin(t6) },
			Expected: Definition{Columns: []string{"a", "b", "c"}, Rows: [][]interface{}{}},
		},
		{
			Name: "OuterPadsWithNulls",
			Run:  func() (*Table, error) { return t1.OuterJoin(t5) },
			Expected: Definition{
				Columns: []string{"a", "b", "c"},
				Rows:    [][]interface{}{{1, 2, 2}, {3, 4, nil}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := tc.Run()
			if err != nil {
				t.Fatal(err)
			}
			assertTablesEqual(t, got, mustNew(t, tc.Expected))
		})
	}
}

func TestJoinErrors(t *testing.T) {
	t1 := mustNew(t, Definition{
		Columns: []string{"a", "b"}, Rows: [][]interface{}{{1, 2}, {3, 4}}, PrimaryKey: "b",
	})
	t2 := mustNew(t, Definition{
		Columns: []string{"c", "d"}, Rows: [][]interface{}{{2, 1}, {4, 3}}, PrimaryKey: "c",
	})

	// Joins on multiple matching columns are not supported.
	if _, err := t1.Join(t1, JoinOptions{}); !errors.Is(err, ErrAmbiguousJoin) {
		t.Fatalf("Expected: %v;\nReceived: %v", ErrAmbiguousJoin, err)
	}

	// Cartesian joins are not supported.
	if _, err := t1.Join(t2, JoinOptions{}); !errors.Is(err, ErrNoJoinColumn) {
		t.Fatalf("Expected: %v;\nReceived: %v", ErrNoJoinColumn, err)
	}

	if _, err := t1.Join(t2, JoinOptions{Left: "z"}); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("Expected: %v;\nReceived: %v", ErrUnknownColumn, err)
	}
}
