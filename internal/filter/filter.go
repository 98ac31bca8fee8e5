// Package filter applies the regulon confidence filter to an inferred model.
package filter

import (
	"context"

	"grnexport/internal/engineexec"
	"grnexport/internal/model"
	"grnexport/internal/tables"
)

// Stage removes low-confidence regulons from m in place. Any error is fatal
// to the run.
type Stage interface {
	Apply(ctx context.Context, m *model.Model) error
}

// StageFunc adapts a function to Stage.
type StageFunc func(ctx context.Context, m *model.Model) error

func (f StageFunc) Apply(ctx context.Context, m *model.Model) error { return f(ctx, m) }

// Command runs the engine program's "filter" verb, which applies the
// standard-deviation criterion. Tables go out as TSV in filter-in and come
// back from filter-out.
type Command struct {
	Runner *engineexec.Runner
}

func (c *Command) Apply(ctx context.Context, m *model.Model) error {
	in, err := c.Runner.Prepare("filter-in")
	if err != nil {
		return err
	}
	out, err := c.Runner.Prepare("filter-out")
	if err != nil {
		return err
	}
	if err := tables.WriteDir(c.Runner.Fs, in, m); err != nil {
		return err
	}
	if err := c.Runner.Run(ctx, "filter", "--in", in, "--out", out); err != nil {
		return err
	}

	filtered := model.New(m.Sources)
	if err := tables.ReadDir(c.Runner.Fs, out, filtered); err != nil {
		return err
	}
	// A table the filter did not write back is left as it was.
	if filtered.TF2G != nil {
		m.TF2G = filtered.TF2G
	}
	if filtered.R2G != nil {
		m.R2G = filtered.R2G
	}
	if filtered.Triplets != nil {
		m.Triplets = filtered.Triplets
	}
	return nil
}
