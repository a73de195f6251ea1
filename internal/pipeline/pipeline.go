// Package pipeline composes table operators into the fixed order query
// pipeline exposed by the CLI and the HTTP frontend: restrict, project,
// extend, distinct, summarize, order by, limit, count, then metadata
// attachment.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/jsondb/jsondb/internal/jq"
	"github.com/jsondb/jsondb/table"
)

// Options selects which pipeline stages run. Zero values disable a stage.
// Expression fields hold jq source.
type Options struct {
	Restrict string
	Project  []string
	Extend   string
	Distinct bool

	// Summarize enables grouping even when SummarizePer is empty, which
	// groups the whole table.
	Summarize    bool
	SummarizePer []string
	SummarizeAdd string

	OrderBy []string

	// Limit truncates the result when positive.
	Limit int

	Count bool

	Name    string
	Comment string

	// Trace echoes each stage to the writer as it is applied.
	Trace io.Writer

	// NoExecute echoes the stages without running them; Run returns nil.
	NoExecute bool
}

// Run applies the configured stages to t in order and returns the result.
// Expression evaluation stops with an error once ctx is cancelled. In
// NoExecute mode it validates expressions, traces every stage and returns a
// nil table.
func Run(ctx context.Context, t *table.Table, opts Options) (*table.Table, error) {
	p, err := compile(opts)
	if err != nil {
		return nil, err
	}
	return p.run(ctx, t)
}

type pipeline struct {
	opts     Options
	restrict *jq.Query
	extend   *jq.Query
	addFn    *jq.Query
}

func compile(opts Options) (*pipeline, error) {
	p := &pipeline{opts: opts}

	var err error
	if opts.Restrict != "" {
		if p.restrict, err = jq.Compile(opts.Restrict); err != nil {
			return nil, errors.Wrap(err, "restrict")
		}
	}
	if opts.Extend != "" {
		if p.extend, err = jq.Compile(opts.Extend); err != nil {
			return nil, errors.Wrap(err, "extend")
		}
	}
	if opts.SummarizeAdd != "" {
		if p.addFn, err = jq.Compile(opts.SummarizeAdd); err != nil {
			return nil, errors.Wrap(err, "summarize add")
		}
	}

	return p, nil
}

func (p *pipeline) trace(format string, args ...interface{}) {
	if p.opts.Trace != nil {
		fmt.Fprintf(p.opts.Trace, format+"\n", args...)
	}
}

func (p *pipeline) run(ctx context.Context, t *table.Table) (*table.Table, error) {
	opts := p.opts
	exec := !opts.NoExecute

	var err error
	if p.restrict != nil {
		p.trace("t = t.Restrict(%s)", opts.Restrict)
		if exec {
			if t, err = t.Restrict(p.restrict.Predicate(ctx)); err != nil {
				return nil, errors.Wrap(err, "restrict")
			}
		}
	}

	if len(opts.Project) > 0 {
		p.trace("t = t.Project(%s)", strings.Join(opts.Project, ", "))
		if exec {
			if t, err = t.Project(opts.Project); err != nil {
				return nil, errors.Wrap(err, "project")
			}
		}
	}

	if p.extend != nil {
		p.trace("t = t.Extend(%s)", opts.Extend)
		if exec {
			if t, err = t.Extend(p.extend.Extender(ctx)); err != nil {
				return nil, errors.Wrap(err, "extend")
			}
		}
	}

	if opts.Distinct {
		p.trace("t = t.Distinct()")
		if exec {
			if t, err = t.Distinct(); err != nil {
				return nil, errors.Wrap(err, "distinct")
			}
		}
	}

	if opts.Summarize {
		if opts.SummarizeAdd != "" {
			p.trace("t = t.Summarize(%s, %s)", strings.Join(opts.SummarizePer, ", "), opts.SummarizeAdd)
		} else {
			p.trace("t = t.Summarize(%s)", strings.Join(opts.SummarizePer, ", "))
		}
		if exec {
			var add table.Extender
			if p.addFn != nil {
				add = p.addFn.Extender(ctx)
			}
			if t, err = t.Summarize(opts.SummarizePer, add); err != nil {
				return nil, errors.Wrap(err, "summarize")
			}
		}
	}

	if len(opts.OrderBy) > 0 {
		p.trace("t = t.OrderBy(%s)", strings.Join(opts.OrderBy, ", "))
		if exec {
			if t, err = t.OrderBy(opts.OrderBy); err != nil {
				return nil, errors.Wrap(err, "order by")
			}
		}
	}

	if opts.Limit > 0 {
		p.trace("t = t.Limit(%d)", opts.Limit)
		if exec {
			if t, err = t.Limit(opts.Limit); err != nil {
				return nil, errors.Wrap(err, "limit")
			}
		}
	}

	if opts.Count {
		p.trace("t = t.Count()")
		if exec {
			if t, err = t.Count(); err != nil {
				return nil, errors.Wrap(err, "count")
			}
		}
	}

	if exec {
		if opts.Name != "" {
			t = t.WithName(opts.Name)
		}
		if opts.Comment != "" {
			t = t.WithComment(opts.Comment)
		}
	}

	if !exec {
		return nil, nil
	}
	return t, nil
}
