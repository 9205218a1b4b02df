package tidyse

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/tidyse/experiment"
	"github.com/hupe1980/tidyse/table"
)

type placement uint8

const (
	placeNone placement = iota
	placeSample
	placeFeature
	placeAssay
)

// axis maps every row of a key column to the position of its id. Ids are
// numbered in order of first appearance.
type axis struct {
	ids []string
	idx []int
}

func newAxis(values []table.Value, key string) (axis, error) {
	a := axis{idx: make([]int, len(values))}
	pos := make(map[string]int)
	for r, v := range values {
		if v.IsNull() {
			return axis{}, notPossible("%s is missing in row %d", key, r)
		}
		id := v.Format()
		i, ok := pos[id]
		if !ok {
			i = len(a.ids)
			pos[id] = i
			a.ids = append(a.ids, id)
		}
		a.idx[r] = i
	}
	return a, nil
}

// collapse returns one value per id when values is functionally dependent
// on the axis.
func (a axis) collapse(values []table.Value) ([]table.Value, bool) {
	out := make([]table.Value, len(a.ids))
	set := make([]bool, len(a.ids))
	for r, v := range values {
		i := a.idx[r]
		if !set[i] {
			out[i], set[i] = v, true
			continue
		}
		if !out[i].Equal(v) {
			return nil, false
		}
	}
	return out, true
}

func (td *Tidier) reconstruct(ctx context.Context, lt *table.Table, shape experiment.Shape) (*experiment.Experiment, error) {
	sampleValues, ok := lt.Column(experiment.SampleKey)
	if !ok {
		return nil, notPossible("key column %q is gone", experiment.SampleKey)
	}
	featureValues, ok := lt.Column(experiment.FeatureKey)
	if !ok {
		return nil, notPossible("key column %q is gone", experiment.FeatureKey)
	}
	if lt.NumRows() == 0 {
		return nil, notPossible("no rows")
	}

	samples, err := newAxis(sampleValues, experiment.SampleKey)
	if err != nil {
		return nil, err
	}
	features, err := newAxis(featureValues, experiment.FeatureKey)
	if err != nil {
		return nil, err
	}
	ns, nf := len(samples.ids), len(features.ids)
	if ns*nf != lt.NumRows() {
		return nil, notPossible("%d rows do not cover %d samples by %d features", lt.NumRows(), ns, nf)
	}
	cells := roaring64.New()
	for r := range lt.NumRows() {
		if !cells.CheckedAdd(uint64(samples.idx[r])*uint64(nf) + uint64(features.idx[r])) {
			return nil, notPossible("pair (%s, %s) appears more than once",
				samples.ids[samples.idx[r]], features.ids[features.idx[r]])
		}
	}

	var sampleCols, featureCols, assayCols []table.Column
	for _, c := range lt.Columns() {
		if isReserved(c.Name) {
			continue
		}
		p, values := place(c, shape, samples, features)
		switch p {
		case placeSample:
			sampleCols = append(sampleCols, table.Column{Name: c.Name, Values: values})
		case placeFeature:
			featureCols = append(featureCols, table.Column{Name: c.Name, Values: values})
		case placeAssay:
			assayCols = append(assayCols, c)
		default:
			return nil, notPossible("column %q belongs to no block", c.Name)
		}
	}

	var ranges *experiment.Ranges
	if shape.HasRanges() {
		ranges, featureCols = splitRanges(featureCols)
	}

	// Known assays keep their order, new ones follow in table order.
	rank := func(name string) int {
		if i := slices.Index(shape.Assays, name); i >= 0 {
			return i
		}
		return len(shape.Assays)
	}
	slices.SortStableFunc(assayCols, func(a, b table.Column) int { return cmp.Compare(rank(a.Name), rank(b.Name)) })

	assays := make([]experiment.Assay, len(assayCols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(td.parallelism)
	for i, c := range assayCols {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m := mat.NewDense(nf, ns, nil)
			for r, v := range c.Values {
				x, ok := v.AsFloat64()
				if !ok {
					x = math.NaN()
				}
				m.Set(features.idx[r], samples.idx[r], x)
			}
			assays[i] = experiment.Assay{Name: c.Name, Values: m}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sampleData, err := table.Empty(ns).With(sampleCols...)
	if err != nil {
		return nil, notPossible("%v", err)
	}
	featureData, err := table.Empty(nf).With(featureCols...)
	if err != nil {
		return nil, notPossible("%v", err)
	}

	e, err := experiment.New(experiment.Config{
		SampleIDs:   samples.ids,
		SampleData:  sampleData,
		FeatureIDs:  features.ids,
		FeatureData: featureData,
		Assays:      assays,
		Ranges:      ranges,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReconstructionNotPossible, err)
	}
	return e, nil
}

// place decides which block a long-table column goes back to. Columns keep
// their former block when they still fit it; new columns prefer sample
// metadata over feature metadata over assays.
func place(c table.Column, shape experiment.Shape, samples, features axis) (placement, []table.Value) {
	var order []placement
	switch {
	case shape.IsAssay(c.Name):
		order = []placement{placeAssay}
	case shape.IsFeatureColumn(c.Name), shape.IsRangeColumn(c.Name):
		order = []placement{placeFeature, placeSample, placeAssay}
	default:
		order = []placement{placeSample, placeFeature, placeAssay}
	}

	for _, p := range order {
		switch p {
		case placeSample:
			if v, ok := samples.collapse(c.Values); ok {
				return p, v
			}
		case placeFeature:
			if v, ok := features.collapse(c.Values); ok {
				return p, v
			}
		case placeAssay:
			if numeric(c.Values) {
				return p, c.Values
			}
		}
	}
	return placeNone, nil
}

func numeric(values []table.Value) bool {
	for _, v := range values {
		if !v.IsNull() && !v.IsNumeric() {
			return false
		}
	}
	return true
}

// splitRanges rebuilds feature ranges from feature-level range columns.
// When any of them is missing, moved or malformed, the columns stay plain
// feature metadata.
func splitRanges(featureCols []table.Column) (*experiment.Ranges, []table.Column) {
	isRange := func(c table.Column) bool { return slices.Contains(experiment.RangeColumns, c.Name) }

	var cols []table.Column
	for _, c := range featureCols {
		if isRange(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, featureCols
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, featureCols
	}
	r, err := experiment.RangesFromTable(t)
	if err != nil {
		return nil, featureCols
	}
	if width, ok := t.Column(experiment.ColWidth); ok {
		want, _ := r.Table().Column(experiment.ColWidth)
		for i := range width {
			if !width[i].Equal(want[i]) {
				return nil, featureCols
			}
		}
	}
	return r, slices.DeleteFunc(slices.Clone(featureCols), isRange)
}
