// Package jq bridges jq expressions to table row functions. It is the
// replacement for arbitrary user supplied code at the CLI and HTTP
// boundaries: restrictions, extensions and aggregations are all written as
// jq programs evaluated against the row's object form.
package jq

import (
	"context"

	"github.com/itchyny/gojq"
	"github.com/pkg/errors"

	"github.com/jsondb/jsondb/table"
)

// Query is a parsed jq expression.
type Query struct {
	src   string
	query *gojq.Query
}

// Compile parses src as a jq program.
func Compile(src string) (*Query, error) {
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, "parse jq expression %q", src)
	}
	return &Query{src: src, query: q}, nil
}

// String returns the jq source of the query.
func (q *Query) String() string { return q.src }

// run evaluates the query against input and collects every emitted value.
// Evaluation stops with an error once ctx is cancelled.
func (q *Query) run(ctx context.Context, input map[string]interface{}) ([]interface{}, error) {
	iter := q.query.RunWithContext(ctx, normalize(input).(map[string]interface{}))

	var out []interface{}
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, errors.Wrapf(err, "run jq expression %q", q.src)
		}
		out = append(out, v)
	}
	return out, nil
}

// Predicate adapts the query to a Restrict predicate. A row is kept when the
// query emits any value other than false or null.
func (q *Query) Predicate(ctx context.Context) table.Predicate {
	return func(r table.Row) (bool, error) {
		values, err := q.run(ctx, r.Map())
		if err != nil {
			return false, err
		}
		for _, v := range values {
			if v == nil {
				continue
			}
			if b, ok := v.(bool); ok && !b {
				continue
			}
			return true, nil
		}
		return false, nil
	}
}

// Extender adapts the query to an Extend, Update or Summarize function. The
// first value the query emits must be an object; its fields become the
// resulting row.
func (q *Query) Extender(ctx context.Context) table.Extender {
	return func(r table.Row) (table.Row, error) {
		values, err := q.run(ctx, r.Map())
		if err != nil {
			return table.Row{}, err
		}
		if len(values) == 0 {
			return table.Row{}, errors.Errorf("jq expression %q produced no value", q.src)
		}

		obj, ok := values[0].(map[string]interface{})
		if !ok {
			return table.Row{}, errors.Errorf("jq expression %q must produce an object, got %T", q.src, values[0])
		}
		return table.RowFromMap(obj), nil
	}
}

// normalize converts values into the set gojq accepts as input: nil, bool,
// int, float64, string, []interface{} and map[string]interface{}.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(x))
		for i, e := range x {
			s[i] = normalize(e)
		}
		return s
	case int64:
		return int(x)
	case int32:
		return int(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
