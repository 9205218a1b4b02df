package tidyse

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/tidyse/experiment"
	"github.com/hupe1980/tidyse/table"
)

// Nested is the result of Nest: an outer table with one row per group and
// one item per row holding the group's data.
type Nested struct {
	outer  *table.Table
	column string
	items  []Data
	// origin is set when the items were cut from a flattened experiment.
	origin *experiment.Shape
	// schema holds the item columns of a table nest with zero rows.
	schema *table.Table
}

// Outer returns the grouping columns, one row per item.
func (n *Nested) Outer() *table.Table { return n.outer }

// Column returns the name of the nested column.
func (n *Nested) Column() string { return n.column }

// Len returns the number of groups.
func (n *Nested) Len() int { return len(n.items) }

// Item returns the data of group i.
func (n *Nested) Item(i int) Data { return n.items[i] }

// Map applies fn to every item and keeps the outer table.
func (n *Nested) Map(fn func(i int, d Data) (Data, error)) (*Nested, error) {
	items := make([]Data, len(n.items))
	for i, d := range n.items {
		out, err := fn(i, d)
		if err != nil {
			return nil, fmt.Errorf("nested item %d: %w", i, err)
		}
		items[i] = out
	}
	return &Nested{outer: n.outer, column: n.column, items: items, origin: n.origin, schema: n.schema}, nil
}

// Nest groups d by the by columns and stores every group under into.
//
// Experiments cannot be nested by sample or transcript. When all by columns
// are sample metadata the items are sub-experiments of the group's samples,
// likewise for feature metadata. Otherwise the experiment is flattened and
// the items are long-table slices that Unnest can reconstruct.
func (td *Tidier) Nest(ctx context.Context, d Data, into string, by ...string) (n *Nested, err error) {
	td = td.scoped("nest")
	start := time.Now()
	defer func() {
		td.metrics.RecordVerb("nest", time.Since(start), err)
		td.logger.LogVerb(ctx, d.Kind(), err)
	}()

	if len(by) == 0 || into == "" || slices.Contains(by, into) {
		return nil, fmt.Errorf("%w: nest %q by %v", ErrInvalidNest, into, by)
	}

	switch d.Kind() {
	case KindTable:
		return nestTable(d.tbl, into, by, nil)
	case KindExperiment:
		return td.nestExperiment(ctx, d.exp, into, by)
	default:
		return nil, ErrInvalidData
	}
}

func (td *Tidier) nestExperiment(ctx context.Context, e *experiment.Experiment, into string, by []string) (*Nested, error) {
	var reserved []string
	for _, b := range by {
		if isReserved(b) {
			reserved = append(reserved, b)
		}
	}
	if len(reserved) > 0 {
		return nil, &ReservedKeyError{Columns: reserved}
	}

	if allIn(e.SampleData(), by) {
		return nestAxis(e.SampleData(), into, by, func(rows []int) (*experiment.Experiment, error) {
			sub, err := e.SelectSamples(rows)
			if err != nil {
				return nil, err
			}
			return sub.DropSampleColumns(by...)
		})
	}
	if allIn(e.FeatureData(), by) {
		return nestAxis(e.FeatureData(), into, by, func(rows []int) (*experiment.Experiment, error) {
			sub, err := e.SelectFeatures(rows)
			if err != nil {
				return nil, err
			}
			return sub.DropFeatureColumns(by...)
		})
	}

	lt, shape, err := td.flatten(ctx, e)
	if err != nil {
		return nil, err
	}
	return nestTable(lt, into, by, &shape)
}

func allIn(t *table.Table, names []string) bool {
	return !slices.ContainsFunc(names, func(n string) bool { return !t.Has(n) })
}

// nestAxis groups one metadata block and cuts a sub-experiment per group
// without going through the long table.
func nestAxis(meta *table.Table, into string, by []string, cut func(rows []int) (*experiment.Experiment, error)) (*Nested, error) {
	groups, err := table.GroupBy(meta, by...)
	if err != nil {
		return nil, err
	}
	items := make([]Data, len(groups))
	for i, g := range groups {
		sub, err := cut(g.Rows)
		if err != nil {
			return nil, err
		}
		items[i] = FromExperiment(sub)
	}
	outer, err := outerTable(meta, by, groups)
	if err != nil {
		return nil, err
	}
	return &Nested{outer: outer, column: into, items: items}, nil
}

func nestTable(t *table.Table, into string, by []string, origin *experiment.Shape) (*Nested, error) {
	groups, err := table.GroupBy(t, by...)
	if err != nil {
		return nil, err
	}
	rest := t.Drop(by...)
	items := make([]Data, len(groups))
	for i, g := range groups {
		sub, err := rest.Take(g.Rows)
		if err != nil {
			return nil, err
		}
		items[i] = FromTable(sub)
	}
	outer, err := outerTable(t, by, groups)
	if err != nil {
		return nil, err
	}
	schema, err := rest.Take(nil)
	if err != nil {
		return nil, err
	}
	return &Nested{outer: outer, column: into, items: items, origin: origin, schema: schema}, nil
}

func outerTable(t *table.Table, by []string, groups []table.Group) (*table.Table, error) {
	keys, err := t.Select(by...)
	if err != nil {
		return nil, err
	}
	reps := make([]int, len(groups))
	for i, g := range groups {
		reps[i] = g.Rows[0]
	}
	return keys.Take(reps)
}

// Unnest expands every outer row into the rows of its item.
//
// Experiment items are flattened and the result is a long table. Table
// items cut from an experiment are reconstructed when they still cover it,
// otherwise the long table is returned.
func (td *Tidier) Unnest(ctx context.Context, n *Nested) (out Data, err error) {
	td = td.scoped("unnest")
	start := time.Now()
	kind := KindInvalid
	if n != nil && len(n.items) > 0 {
		kind = n.items[0].Kind()
	}
	defer func() {
		td.metrics.RecordVerb("unnest", time.Since(start), err)
		td.logger.LogVerb(ctx, kind, err)
	}()

	if n == nil {
		return Data{}, ErrInvalidData
	}

	parts := make([]*table.Table, len(n.items))
	for i, item := range n.items {
		var t *table.Table
		switch item.Kind() {
		case KindTable:
			t = item.tbl
		case KindExperiment:
			if t, _, err = td.flatten(ctx, item.exp); err != nil {
				return Data{}, err
			}
		default:
			return Data{}, fmt.Errorf("nested item %d: %w", i, ErrInvalidData)
		}

		cols := make([]table.Column, 0, n.outer.NumCols())
		for _, c := range n.outer.Columns() {
			cols = append(cols, table.Repeat(c.Name, c.Values[i], t.NumRows()))
		}
		if parts[i], err = t.Insert(0, cols...); err != nil {
			return Data{}, fmt.Errorf("nested item %d: %w", i, err)
		}
	}

	if len(parts) == 0 {
		return unnestEmpty(n)
	}
	lt, err := table.BindRows(parts...)
	if err != nil {
		return Data{}, err
	}
	if n.origin != nil {
		return td.Tidy(ctx, lt, *n.origin), nil
	}
	return FromTable(lt), nil
}

// unnestEmpty keeps the outer and item columns of a nest without groups.
func unnestEmpty(n *Nested) (Data, error) {
	if n.schema == nil {
		return FromTable(n.outer), nil
	}
	lt, err := n.outer.With(n.schema.Columns()...)
	if err != nil {
		return Data{}, err
	}
	return FromTable(lt), nil
}
