package tidyse

import (
	"context"
	"slices"
	"time"

	"github.com/hupe1980/tidyse/table"
)

// guard names the columns a verb targets and whether it removes them.
// A non-nil keep also targets every protected column missing from keep.
type guard struct {
	targets []string
	removal bool
	keep    []string
}

func (g *guard) columns(protected ColumnSet) []string {
	if g.keep == nil {
		return g.targets
	}
	targets := slices.Clone(g.targets)
	for _, name := range protected.Names() {
		if !slices.Contains(g.keep, name) {
			targets = append(targets, name)
		}
	}
	return targets
}

// Extract turns the capture groups of spec.Regex into new columns.
//
// On an experiment, spec.Col and spec.Into are guarded: removing a
// protected column fails with a ProtectedColumnError.
func (td *Tidier) Extract(ctx context.Context, d Data, spec table.ExtractSpec) (Data, error) {
	g := &guard{targets: append([]string{spec.Col}, spec.Into...), removal: spec.Remove}
	return td.apply(ctx, "extract", d, g, func(t *table.Table) (*table.Table, error) {
		return table.Extract(t, spec)
	})
}

// Unite pastes spec.Cols together into spec.Col.
//
// On an experiment, spec.Col and spec.Cols are guarded.
func (td *Tidier) Unite(ctx context.Context, d Data, spec table.UniteSpec) (Data, error) {
	g := &guard{targets: append([]string{spec.Col}, spec.Cols...), removal: spec.Remove}
	return td.apply(ctx, "unite", d, g, func(t *table.Table) (*table.Table, error) {
		return table.Unite(t, spec)
	})
}

// Separate splits spec.Col into spec.Into.
//
// On an experiment, spec.Col and spec.Into are guarded.
func (td *Tidier) Separate(ctx context.Context, d Data, spec table.SeparateSpec) (Data, error) {
	g := &guard{targets: append([]string{spec.Col}, spec.Into...), removal: spec.Remove}
	return td.apply(ctx, "separate", d, g, func(t *table.Table) (*table.Table, error) {
		return table.Separate(t, spec)
	})
}

// PivotLonger turns spec.Cols into (name, value) rows. On an experiment
// spec.Cols are removed, so pivoting a protected column fails with a
// ProtectedColumnError.
func (td *Tidier) PivotLonger(ctx context.Context, d Data, spec table.PivotLongerSpec) (Data, error) {
	g := &guard{targets: spec.Cols, removal: true}
	return td.apply(ctx, "pivot_longer", d, g, func(t *table.Table) (*table.Table, error) {
		return table.PivotLonger(t, spec)
	})
}

// PivotWider spreads spec.ValuesFrom over one column per value of
// spec.NamesFrom. Duplicate cells fail with a table.DuplicateKeyError.
//
// On an experiment, spec.NamesFrom, spec.ValuesFrom and every protected
// column left out of a non-nil spec.IDCols are guarded.
func (td *Tidier) PivotWider(ctx context.Context, d Data, spec table.PivotWiderSpec) (Data, error) {
	g := &guard{targets: []string{spec.NamesFrom, spec.ValuesFrom}, removal: true, keep: spec.IDCols}
	return td.apply(ctx, "pivot_wider", d, g, func(t *table.Table) (*table.Table, error) {
		return table.PivotWider(t, spec)
	})
}

// Filter keeps the rows matching every filter. On an experiment, dropping
// whole samples or features yields a smaller experiment.
func (td *Tidier) Filter(ctx context.Context, d Data, filters ...table.Filter) (Data, error) {
	return td.apply(ctx, "filter", d, nil, func(t *table.Table) (*table.Table, error) {
		return table.Where(t, filters...)
	})
}

// apply runs fn on the table form of d. Experiments are guarded, flattened
// and reconstructed around fn, falling back to the long table.
func (td *Tidier) apply(ctx context.Context, verb string, d Data, g *guard, fn func(*table.Table) (*table.Table, error)) (out Data, err error) {
	td = td.scoped(verb)
	start := time.Now()
	defer func() {
		td.metrics.RecordVerb(verb, time.Since(start), err)
		td.logger.LogVerb(ctx, d.Kind(), err)
	}()

	switch d.Kind() {
	case KindTable:
		t, err := fn(d.tbl)
		if err != nil {
			return Data{}, err
		}
		return FromTable(t), nil
	case KindExperiment:
		if g != nil {
			protected := ProtectedColumns(d.exp)
			if err := AssertMutable(g.columns(protected), protected, g.removal); err != nil {
				return Data{}, err
			}
		}
		lt, shape, err := td.flatten(ctx, d.exp)
		if err != nil {
			return Data{}, err
		}
		t, err := fn(lt)
		if err != nil {
			return Data{}, err
		}
		return td.Tidy(ctx, t, shape), nil
	default:
		return Data{}, ErrInvalidData
	}
}
